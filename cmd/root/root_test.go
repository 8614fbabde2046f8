package root_test

import (
	"bytes"
	"context"
	"testing"

	"fjacquet/finance-ledger/cmd/root"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand_Metadata(t *testing.T) {
	assert.Equal(t, "finance-ledger", root.Cmd.Use)
	assert.Contains(t, root.Cmd.Short, "personal finance ledger")
	assert.NotNil(t, root.Cmd.RunE)
	assert.NotNil(t, root.Cmd.PersistentPreRunE)
	assert.NotNil(t, root.Cmd.PersistentPostRunE)
}

func TestRootCommand_Flags(t *testing.T) {
	root.Init()
	root.Init()

	for name, short := range map[string]string{"user": "u", "password": "p", "data-dir": "d", "config": ""} {
		flag := root.Cmd.PersistentFlags().Lookup(name)
		require.NotNil(t, flag, name)
		assert.Equal(t, short, flag.Shorthand)
	}
}

func TestContainer_NotInitialized(t *testing.T) {
	root.AppContainer = nil
	_, err := root.Container()
	assert.EqualError(t, err, "container not initialized")

	_, err = root.Login(context.Background())
	assert.Error(t, err)
	assert.NoError(t, root.Close())

	var buf bytes.Buffer
	root.PrintNotifications(&buf)
	assert.Empty(t, buf.String())
}

func TestPassword_FallsBackToEnv(t *testing.T) {
	original := root.SharedFlags.Password
	defer func() { root.SharedFlags.Password = original }()

	t.Setenv(root.PasswordEnv, "from-env")
	root.SharedFlags.Password = ""
	assert.Equal(t, "from-env", root.Password())

	root.SharedFlags.Password = "from-flag"
	assert.Equal(t, "from-flag", root.Password())
}

func TestParseAmount(t *testing.T) {
	amount, err := root.ParseAmount(" 12.50 ")
	require.NoError(t, err)
	assert.True(t, amount.Equal(decimal.RequireFromString("12.5")))

	_, err = root.ParseAmount("twelve")
	assert.EqualError(t, err, `invalid amount "twelve"`)
}
