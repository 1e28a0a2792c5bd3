package dto

// UnreadCountResponse is the unread badge payload
type UnreadCountResponse struct {
	Count int64 `json:"count" example:"2"`
}

// MarkAllReadResponse reports how many notifications were updated
type MarkAllReadResponse struct {
	Updated int64 `json:"updated" example:"5"`
}
