package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roadwatch/hazard-service/internal/auth"
)

func TestRunPrintsVerifiableHash(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, run(strings.NewReader("gateway-secret\n"), &out, 4))

	hashed := strings.TrimSpace(out.String())
	assert.NoError(t, auth.CompareGatewayKey(hashed, "gateway-secret"))
	assert.Error(t, auth.CompareGatewayKey(hashed, "gateway-secret\n"))
}

func TestRunWithoutTrailingNewline(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, run(strings.NewReader("k3y"), &out, 4))
	assert.NoError(t, auth.CompareGatewayKey(strings.TrimSpace(out.String()), "k3y"))
}

func TestRunRejectsEmptyKey(t *testing.T) {
	var out bytes.Buffer
	assert.Error(t, run(strings.NewReader("\n"), &out, 4))
	assert.Empty(t, out.String())
}
