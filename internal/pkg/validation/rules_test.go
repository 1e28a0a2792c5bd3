package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsPhoneNumber(t *testing.T) {
	valid := []string{"09012345678", "090-1234-5678", "0312345678", "03-1234-5678"}
	for _, s := range valid {
		assert.True(t, IsPhoneNumber(s), s)
	}

	invalid := []string{"", "12345678901", "090-1234", "090123456789", "090-abcd-5678"}
	for _, s := range invalid {
		assert.False(t, IsPhoneNumber(s), s)
	}
}

func TestRegisteredRules(t *testing.T) {
	type profile struct {
		Name  string `validate:"notblank"`
		Phone string `validate:"omitempty,tel"`
	}

	v := New()
	assert.NoError(t, v.Struct(profile{Name: "山田", Phone: "090-1234-5678"}))
	assert.NoError(t, v.Struct(profile{Name: "山田"}))
	assert.Error(t, v.Struct(profile{Name: "   "}))
	assert.Error(t, v.Struct(profile{Name: "山田", Phone: "123"}))
}
