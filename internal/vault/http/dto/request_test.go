package dto

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCreateSecretRequest_Validate(t *testing.T) {
	tests := []struct {
		name      string
		request   CreateSecretRequest
		shouldErr bool
		errMsg    string
	}{
		{
			name:    "valid request",
			request: CreateSecretRequest{Content: "API_TOKEN=abc", MaxReads: 1, TTL: 3600},
		},
		{
			name:    "empty content",
			request: CreateSecretRequest{Content: "", MaxReads: 1, TTL: 60},
		},
		{
			name:      "missing max_reads",
			request:   CreateSecretRequest{Content: "x", TTL: 60},
			shouldErr: true,
			errMsg:    "max_reads",
		},
		{
			name:      "negative max_reads",
			request:   CreateSecretRequest{Content: "x", MaxReads: -3, TTL: 60},
			shouldErr: true,
			errMsg:    "max_reads",
		},
		{
			name:      "missing ttl",
			request:   CreateSecretRequest{Content: "x", MaxReads: 1},
			shouldErr: true,
			errMsg:    "ttl",
		},
		{
			name:      "negative ttl",
			request:   CreateSecretRequest{Content: "x", MaxReads: 1, TTL: -1},
			shouldErr: true,
			errMsg:    "ttl",
		},
		{
			name:      "ttl overflowing a duration",
			request:   CreateSecretRequest{Content: "x", MaxReads: 1, TTL: 18446747674},
			shouldErr: true,
			errMsg:    "ttl",
		},
		{
			name:    "largest representable ttl",
			request: CreateSecretRequest{Content: "x", MaxReads: 1, TTL: maxTTLSeconds},
		},
		{
			name:      "invalid utf-8",
			request:   CreateSecretRequest{Content: string([]byte{0xff}), MaxReads: 1, TTL: 60},
			shouldErr: true,
			errMsg:    "content",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.request.Validate()
			if tt.shouldErr {
				assert.ErrorContains(t, err, tt.errMsg)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCreateSecretRequest_TTLDuration(t *testing.T) {
	req := CreateSecretRequest{TTL: 90}
	assert.Equal(t, 90*time.Second, req.TTLDuration())

	req = CreateSecretRequest{TTL: maxTTLSeconds}
	assert.Positive(t, req.TTLDuration())
}
