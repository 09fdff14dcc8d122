package notify

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRejectedError(t *testing.T) {
	err := fmt.Errorf("deliver: %w", &RejectedError{StatusCode: 404, Body: "no_service"})

	assert.True(t, errors.Is(err, ErrWebhookRejected))
	assert.False(t, errors.Is(err, ErrWebhookUnreachable))

	var rejected *RejectedError
	assert.True(t, errors.As(err, &rejected))
	assert.Equal(t, 404, rejected.StatusCode)
	assert.Equal(t, "webhook returned status 404: no_service", rejected.Error())
	assert.Equal(t, "webhook returned status 500", (&RejectedError{StatusCode: 500}).Error())
}
