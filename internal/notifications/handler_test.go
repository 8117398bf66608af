package notifications

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agora-assembly/backend/internal/models"
)

func TestResendPayloadCarriesBody(t *testing.T) {
	assemblyID := uuid.New()
	registrationID := uuid.New()
	log := &models.NotificationLog{
		AssemblyID:     &assemblyID,
		RegistrationID: &registrationID,
		Kind:           models.NotificationRegistrationApproved,
		Recipient:      "member@example.org",
		Subject:        "Registration approved",
		Body:           "Hello Ana, your registration status is now approved.",
	}

	payload := resendPayload(log)
	require.NotEmpty(t, payload.Body)
	assert.Equal(t, log.Body, payload.Body)
	assert.Equal(t, log.Subject, payload.Subject)
	assert.Equal(t, log.Recipient, payload.Recipient)
	assert.Equal(t, assemblyID, payload.AssemblyID)
	assert.Equal(t, registrationID, payload.RegistrationID)
}

func TestResendPayloadWithoutAssembly(t *testing.T) {
	log := &models.NotificationLog{
		Kind:      models.NotificationRegistrationReceived,
		Recipient: "member@example.org",
		Subject:   "Registration received",
		Body:      "Hello Ana, your registration status is now pending.",
	}

	payload := resendPayload(log)
	assert.Equal(t, uuid.Nil, payload.AssemblyID)
	assert.Equal(t, uuid.Nil, payload.RegistrationID)
	assert.NotEmpty(t, payload.Body)
}
