package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/onoff/internal/engine"
)

func TestOutputFormatter_JSONSuccess(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{
		Format: "json",
		Writer: buf,
	}

	err := formatter.Success(MessageOutput{Day: "2024-05-17", EndHour: 3, Base: 16, Message: "HI"})
	require.NoError(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.NotNil(t, resp.Data)
	assert.Nil(t, resp.Error)
}

func TestOutputFormatter_JSONNoHTMLEscaping(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{Format: "json", Writer: buf}

	require.NoError(t, formatter.Success(MessageOutput{Message: "<&>"}))
	assert.Contains(t, buf.String(), `"message":"<&>"`)
}

func TestOutputFormatter_JSONError(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{
		Format: "json",
		Writer: buf,
	}

	err := formatter.Error(CodeValidation, "invalid hour", map[string]string{"field": "hour"})
	require.NoError(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, CodeValidation, resp.Error.Code)
	assert.Equal(t, "invalid hour", resp.Error.Message)
	assert.NotNil(t, resp.Error.Details)
}

func TestOutputFormatter_TextSuccessUsesStringer(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{Format: "text", Writer: buf}

	require.NoError(t, formatter.Success(MessageOutput{Message: " A "}))
	assert.Equal(t, "\" A \"\n", buf.String())
}

func TestOutputFormatter_TextErrorGoesToErrWriter(t *testing.T) {
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	formatter := &OutputFormatter{Format: "text", Writer: out, ErrWriter: errOut, Verbose: true}

	require.NoError(t, formatter.Error(CodeNotFound, "no record", map[string]string{"key": "k"}))
	assert.Empty(t, out.String())
	assert.Contains(t, errOut.String(), "Error [E_NOT_FOUND]: no record")
	assert.Contains(t, errOut.String(), "Details:")
}

func TestOutputFormatter_VerboseLog(t *testing.T) {
	tests := []struct {
		name    string
		verbose bool
		wantLog bool
	}{
		{"verbose_enabled", true, true},
		{"verbose_disabled", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			formatter := &OutputFormatter{
				Format:  "text",
				Writer:  buf,
				Verbose: tt.verbose,
			}

			formatter.VerboseLog("Reading %d hours", 4)

			if tt.wantLog {
				assert.Contains(t, buf.String(), "Reading 4 hours")
			} else {
				assert.Empty(t, buf.String())
			}
		})
	}
}

func TestOutputFormatter_Fail(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{Format: "json", Writer: buf}

	verr := &engine.ValidationError{Field: "hour", Err: errors.New("out of range")}
	err := formatter.Fail(verr)

	var exitErr *ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.True(t, exitErr.Reported)
	assert.Equal(t, ExitCommandError, exitErr.Code)
	assert.ErrorIs(t, err, verr)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, CodeValidation, resp.Error.Code)
	assert.Equal(t, map[string]any{"field": "hour"}, resp.Error.Details)
}

func TestGetExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitSuccess},
		{"exit error", NewExitError(ExitCommandError, "bad"), ExitCommandError},
		{"validation", &engine.ValidationError{Field: "day"}, ExitCommandError},
		{"not found", &engine.NotFoundError{Key: "k"}, ExitFailure},
		{"store", &engine.StoreError{Op: "get", Err: errors.New("down")}, ExitFailure},
		{"decode", &engine.DecodeError{Day: "2024-01-01", Base: 3, Err: errors.New("bad")}, ExitFailure},
		{"plain", errors.New("boom"), ExitFailure},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GetExitCode(tt.err))
		})
	}
}

func TestErrorCode(t *testing.T) {
	assert.Equal(t, CodeValidation, errorCode(&engine.ValidationError{Field: "hour"}))
	assert.Equal(t, CodeNotFound, errorCode(&engine.NotFoundError{Key: "k"}))
	assert.Equal(t, CodeStore, errorCode(&engine.StoreError{Op: "put", Err: errors.New("x")}))
	assert.Equal(t, CodeDecode, errorCode(&engine.DecodeError{Day: "2024-01-01", Base: 3, Err: errors.New("x")}))
	assert.Equal(t, CodeCommand, errorCode(NewExitError(ExitCommandError, "bad flag")))
	assert.Equal(t, CodeInternal, errorCode(errors.New("boom")))
}

func TestExitError_Message(t *testing.T) {
	assert.Equal(t, "bad", NewExitError(ExitFailure, "bad").Error())
	wrapped := WrapExitError(ExitFailure, "open", errors.New("denied"))
	assert.Equal(t, "open: denied", wrapped.Error())
	assert.EqualError(t, errors.Unwrap(wrapped), "denied")
}
