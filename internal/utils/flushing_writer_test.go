package utils_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tavrik/repostate/internal/utils"
)

type flushRecordingWriter struct {
	buffer     bytes.Buffer
	flushCalls int
	flushError error
}

func (writer *flushRecordingWriter) Write(data []byte) (int, error) {
	return writer.buffer.Write(data)
}

func (writer *flushRecordingWriter) Flush() error {
	writer.flushCalls++
	return writer.flushError
}

func TestFlushingWriterFlushesAfterEachWrite(testInstance *testing.T) {
	underlyingWriter := &flushRecordingWriter{}
	flushingWriter := utils.NewFlushingWriter(underlyingWriter)

	writtenBytes, writeError := flushingWriter.Write([]byte("report line\n"))
	require.NoError(testInstance, writeError)
	require.Equal(testInstance, len("report line\n"), writtenBytes)
	require.Equal(testInstance, 1, underlyingWriter.flushCalls)
	require.Equal(testInstance, "report line\n", underlyingWriter.buffer.String())
}

func TestFlushingWriterSurfacesFlushFailure(testInstance *testing.T) {
	underlyingWriter := &flushRecordingWriter{flushError: errors.New("flush failed")}
	flushingWriter := utils.NewFlushingWriter(underlyingWriter)

	_, writeError := flushingWriter.Write([]byte("report line\n"))
	require.Error(testInstance, writeError)
}

func TestFlushingWriterPassesThroughPlainWriters(testInstance *testing.T) {
	outputBuffer := &bytes.Buffer{}
	flushingWriter := utils.NewFlushingWriter(outputBuffer)

	_, writeError := flushingWriter.Write([]byte("plain"))
	require.NoError(testInstance, writeError)
	require.Equal(testInstance, "plain", outputBuffer.String())
	require.Same(testInstance, flushingWriter, utils.NewFlushingWriter(flushingWriter))
}

func TestFlushingWriterHandlesNilWriter(testInstance *testing.T) {
	require.Nil(testInstance, utils.NewFlushingWriter(nil))
}
