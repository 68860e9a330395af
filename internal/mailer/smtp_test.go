package mailer

import (
    "testing"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/phishsim/phishsim-backend/internal/config"
)

func TestNewSMTPSenderRequiresHostAndFrom(t *testing.T) {
    _, err := NewSMTPSender(config.SMTP{Port: 2525, From: "x@y.com"})
    assert.Error(t, err, "missing host")

    _, err = NewSMTPSender(config.SMTP{Host: "smtp.mailtrap.io", From: "x@y.com"})
    assert.Error(t, err, "missing port")

    _, err = NewSMTPSender(config.SMTP{Host: "smtp.mailtrap.io", Port: 2525})
    assert.Error(t, err, "no from-address and no user to fall back on")
}

func TestNewSMTPSenderFallsBackToUserAsFrom(t *testing.T) {
    s, err := NewSMTPSender(config.SMTP{
        Host: "smtp.mailtrap.io",
        Port: 2525,
        User: "relay-user@phishsim.dev",
    })
    require.NoError(t, err)
    assert.Equal(t, "relay-user@phishsim.dev", s.cfg.From)
}

func TestFromDomain(t *testing.T) {
    assert.Equal(t, "phishsim.dev", fromDomain("noreply@phishsim.dev"))
    assert.Equal(t, "phishsim.local", fromDomain("not-an-address"))
    assert.Equal(t, "phishsim.local", fromDomain("trailing@"))
}
