package email

import (
	"fmt"
	"html"
)

const layout = `
<div style="font-family: 'Hiragino Sans', 'Hiragino Kaku Gothic ProN', 'Noto Sans JP', sans-serif; line-height: 1.6; color: #333;">
	<h2 style="color: #06C755; margin-bottom: 16px;">%s</h2>
	%s
	<hr style="border: none; border-top: 1px solid #E5E5E5; margin: 24px 0;">
	<p style="font-size: 12px; color: #666666;">このメールは自動送信されています。</p>
</div>
`

// ApplicationReceived is sent to the organizer when an exhibitor applies
func ApplicationReceived(eventName string) (subject, body string) {
	name := html.EscapeString(eventName)
	subject = fmt.Sprintf("【%s】新しい出店申し込みがありました", eventName)
	body = fmt.Sprintf(layout, "新しい出店申し込み",
		fmt.Sprintf(`<p>%sに新しい出店申し込みがありました。</p>
	<p style="margin-top: 24px; margin-bottom: 8px;">アプリ内で申し込み内容を確認し、承認または却下を行ってください。</p>`, name))
	return subject, body
}

// ApplicationsClosed confirms to the organizer that an event stopped taking applications
func ApplicationsClosed(eventName string, applicationCount int, exportURL string) (subject, body string) {
	name := html.EscapeString(eventName)
	link := html.EscapeString(exportURL)
	subject = fmt.Sprintf("【%s】出店申し込みを締め切りました", eventName)
	body = fmt.Sprintf(layout, "申し込み締め切りのお知らせ",
		fmt.Sprintf(`<p>%sの出店申し込みを締め切りました。</p>
	<p>出店者数: %d名</p>
	<p>出店者一覧: <a href="%s">%s</a></p>`, name, applicationCount, link, link))
	return subject, body
}
