package smtp

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuildMessage(t *testing.T) {
	msg := buildMessage("raci@example.com", "head@example.com", "Согласование", "строка 1\nстрока 2")
	require.True(t, strings.HasPrefix(msg, "From: raci@example.com\r\nTo: head@example.com\r\nSubject: =?utf-8?q?"))
	require.Contains(t, msg, "Content-Type: text/plain; charset=\"UTF-8\"\r\n\r\n")
	require.True(t, strings.HasSuffix(msg, "строка 1\r\nстрока 2\r\n"))
}

func TestSendWithoutServer(t *testing.T) {
	require.NoError(t, Connect("", "", "", "", "raci@example.com", false))
	require.NoError(t, Instance.SendEMail("head@example.com", "тема", "текст"))
}
