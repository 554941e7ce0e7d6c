// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ParseError reports that a model produced output that could not be
// decoded into the requested structure. Callers can detect it with
// errors.As and decide whether to retry or fall back.
type ParseError struct {
	Raw string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("ai: malformed model output: %v", e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

var validate = validator.New(validator.WithRequiredStructEnabled())

// jsonObjectRe matches the outermost JSON object in a blob of text.
// Models wrap JSON in prose or markdown fences often enough that a
// plain Unmarshal of the raw response is not reliable.
var jsonObjectRe = regexp.MustCompile(`(?s)\{.*\}`)

// ExtractJSON strips markdown code fences and surrounding prose from a
// model response and returns the JSON object payload. Returns the input
// trimmed if no object can be located (Unmarshal will then produce a
// useful error).
func ExtractJSON(raw string) string {
	s := strings.TrimSpace(raw)

	// ```json ... ``` or ``` ... ```
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		if i := strings.LastIndex(s, "```"); i >= 0 {
			s = s[:i]
		}
		s = strings.TrimSpace(s)
	}

	if json.Valid([]byte(s)) {
		return s
	}

	if m := jsonObjectRe.FindString(s); m != "" {
		return m
	}

	return s
}

// CompleteJSON asks the active provider for a structured completion and
// decodes the response into out, which must be a pointer to a struct with
// json and (optionally) validate tags. A response that cannot be decoded
// or fails validation yields a *ParseError wrapping the cause.
func CompleteJSON(ctx context.Context, r *Registry, systemPrompt, userPrompt string, out any) error {
	raw, err := r.Generate(ctx, systemPrompt, userPrompt)
	if err != nil {
		return err
	}

	return DecodeInto(raw, out)
}

// DecodeInto extracts the JSON payload from a raw model response,
// unmarshals it into out, and validates the result.
func DecodeInto(raw string, out any) error {
	payload := ExtractJSON(raw)

	if err := json.Unmarshal([]byte(payload), out); err != nil {
		return &ParseError{Raw: raw, Err: err}
	}

	if err := validate.Struct(out); err != nil {
		return &ParseError{Raw: raw, Err: err}
	}

	return nil
}
