package api

import (
	"bytes"
	"mime/multipart"
	"testing"

	"github.com/stretchr/testify/require"
)

// newMultipart writes a single-file multipart body and returns the
// Content-Type header value to send with it.
func newMultipart(t *testing.T, buf *bytes.Buffer, field, filename string, data []byte) string {
	t.Helper()

	writer := multipart.NewWriter(buf)
	part, err := writer.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	return writer.FormDataContentType()
}
