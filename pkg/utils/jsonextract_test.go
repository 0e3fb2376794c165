package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name     string
		response string
		want     string
	}{
		{
			name:     "bare object",
			response: `{"first_name": "Ravi"}`,
			want:     `{"first_name": "Ravi"}`,
		},
		{
			name:     "prose wrapped",
			response: `Sure! Here is the data: {"loan_amount": 500000} Let me know if you need more.`,
			want:     `{"loan_amount": 500000}`,
		},
		{
			name:     "nested object spans to last brace",
			response: `{"updates": {"city": {"value": "Pune", "confirmed": true}}}`,
			want:     `{"updates": {"city": {"value": "Pune", "confirmed": true}}}`,
		},
		{
			name:     "no object",
			response: "I could not find any fields.",
			want:     "",
		},
		{
			name:     "closing brace before opening",
			response: "} nothing here {",
			want:     "",
		},
		{
			name:     "empty",
			response: "",
			want:     "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractJSON(tt.response))
		})
	}
}

func TestUnmarshalLenient(t *testing.T) {
	type payload struct {
		FirstName string `json:"first_name"`
	}

	t.Run("direct parse", func(t *testing.T) {
		var p payload
		err := UnmarshalLenient(`  {"first_name": "Ravi"}  `, &p)
		assert.NoError(t, err)
		assert.Equal(t, "Ravi", p.FirstName)
	})

	t.Run("embedded parse", func(t *testing.T) {
		var p payload
		err := UnmarshalLenient(`Sure! {"first_name": "Anita"} Thanks`, &p)
		assert.NoError(t, err)
		assert.Equal(t, "Anita", p.FirstName)
	})

	t.Run("no object", func(t *testing.T) {
		var p payload
		err := UnmarshalLenient("no json at all", &p)
		assert.Error(t, err)
	})

	t.Run("broken embedded object", func(t *testing.T) {
		var p payload
		err := UnmarshalLenient(`prefix {"first_name": } suffix`, &p)
		assert.Error(t, err)
	})
}
