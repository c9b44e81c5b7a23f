package service

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestValidationError_ErrorListsFieldsSorted(t *testing.T) {
	t.Parallel()
	ve := &ValidationError{}
	ve.Add("modo", "campo obrigatório")
	ve.Add("cor.r", "deve ser menor ou igual a 255")

	msg := ve.Error()
	if !strings.HasPrefix(msg, "validation failed: cor.r") {
		t.Fatalf("unexpected message %q", msg)
	}
	if !strings.Contains(msg, "modo: campo obrigatório") {
		t.Fatalf("missing modo in %q", msg)
	}
}

func TestIsValidation_SeesThroughWrapping(t *testing.T) {
	t.Parallel()
	err := fmt.Errorf("handler: %w", NewValidationError("valor", "campo obrigatório"))
	if !IsValidation(err) {
		t.Fatalf("expected wrapped validation error to be detected")
	}
	if IsValidation(errors.New("plain")) {
		t.Fatalf("plain error must not be validation")
	}
}

func TestValidateStruct_UsesJSONFieldNames(t *testing.T) {
	t.Parallel()
	err := validateStruct(CommandParams{Mode: "teste"})
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected *ValidationError, got %v", err)
	}
	msgs := ve.Fields["modo"]
	if len(msgs) != 1 || !strings.Contains(msgs[0], `"teste"`) {
		t.Fatalf("modo messages = %v", msgs)
	}
}
