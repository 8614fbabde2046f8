package deletewallet

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeleteWalletRequiresConfirmation(t *testing.T) {
	confirmed = false
	err := deleteFunc(Cmd, nil)
	assert.ErrorContains(t, err, "--yes")
	assert.NotNil(t, Cmd.Flags().Lookup("yes"))
}
