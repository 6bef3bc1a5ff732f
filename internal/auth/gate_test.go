package auth

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type recordingAuditor struct {
	entries []AuditEntry
}

func (a *recordingAuditor) Record(entry AuditEntry) {
	a.entries = append(a.entries, entry)
}

func TestGate_MissingCredential(t *testing.T) {
	auditor := &recordingAuditor{}
	gate := NewGate(NewTokenManager(testSecret), auditor, zap.NewNop())

	_, err := gate.Check("", "get_user_cfg_data", "")
	assert.ErrorIs(t, err, ErrMissingCredential)
	assert.Empty(t, auditor.entries)
}

func TestGate_ValidTokenAuditsOnce(t *testing.T) {
	tm := NewTokenManager(testSecret)
	auditor := &recordingAuditor{}
	gate := NewGate(tm, auditor, zap.NewNop())

	token, err := tm.Generate(testProfile(), 3600)
	require.NoError(t, err)

	profile, err := gate.Check(token, "get_user_cfg_data", "arg-1")
	require.NoError(t, err)
	assert.Equal(t, "alice", profile.Name)

	require.Len(t, auditor.entries, 1)
	entry := auditor.entries[0]
	assert.Equal(t, "alice", entry.Principal)
	assert.Equal(t, "get_user_cfg_data", entry.Operation)
	assert.Equal(t, "arg-1", entry.Arg)
	assert.False(t, entry.At.IsZero())
}

func TestGate_InvalidTokenPreservesReason(t *testing.T) {
	tm := NewTokenManager(testSecret)
	auditor := &recordingAuditor{}
	gate := NewGate(tm, auditor, zap.NewNop())

	expired, err := tm.Generate(testProfile(), -60)
	require.NoError(t, err)

	tests := []struct {
		name   string
		token  string
		reason error
	}{
		{name: "garbage", token: "123", reason: ErrTokenMalformed},
		{name: "expired", token: expired, reason: ErrTokenExpired},
		{name: "forged", token: mustToken(t, NewTokenManager("other-secret")), reason: ErrBadSignature},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := gate.Check(tt.token, "op", "")
			require.Error(t, err)

			var invalid *InvalidTokenError
			require.True(t, errors.As(err, &invalid))
			assert.ErrorIs(t, invalid.Reason, tt.reason)
			assert.NotErrorIs(t, err, ErrMissingCredential)
		})
	}

	// rejected checks never audit
	assert.Empty(t, auditor.entries)
}

func TestGate_NilAuditor(t *testing.T) {
	tm := NewTokenManager(testSecret)
	gate := NewGate(tm, nil, nil)

	token, err := tm.Generate(testProfile(), 3600)
	require.NoError(t, err)

	profile, err := gate.Check(token, "op", "")
	require.NoError(t, err)
	assert.Equal(t, testProfile(), *profile)
}

func mustToken(t *testing.T, tm *TokenManager) string {
	t.Helper()
	token, err := tm.Generate(testProfile(), 3600)
	require.NoError(t, err)
	return token
}
