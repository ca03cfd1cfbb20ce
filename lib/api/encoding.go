// Copyright 2026 The VoiceX Authors
// SPDX-License-Identifier: Apache-2.0

package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/voicex-foundation/voicex/lib/codec"
)

const (
	statusSuccess = "success"
	statusError   = "error"
)

type errorResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// wantsCBOR reports whether the client asked for CBOR responses.
func wantsCBOR(r *http.Request) bool {
	for _, accepted := range strings.Split(r.Header.Get("Accept"), ",") {
		mediaType, _, err := mime.ParseMediaType(strings.TrimSpace(accepted))
		if err == nil && mediaType == codec.ContentType {
			return true
		}
	}
	return false
}

// respond encodes value in the negotiated format.
func respond(w http.ResponseWriter, r *http.Request, status int, value any) {
	var (
		data        []byte
		err         error
		contentType string
	)
	if wantsCBOR(r) {
		data, err = codec.Marshal(value)
		contentType = codec.ContentType
	} else {
		data, err = json.Marshal(value)
		contentType = "application/json"
	}
	if err != nil {
		http.Error(w, fmt.Sprintf("encoding response: %v", err), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(status)
	w.Write(data)
}

func respondError(w http.ResponseWriter, r *http.Request, status int, message string) {
	respond(w, r, status, errorResponse{Status: statusError, Message: message})
}

// decodeBody decodes a JSON or CBOR object into target, selected by
// Content-Type (JSON when absent). JSON numbers decode as json.Number
// so integer tunables survive without float rounding.
func decodeBody(w http.ResponseWriter, r *http.Request, target any) error {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		return fmt.Errorf("reading request body: %w", err)
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return errors.New("request body is empty")
	}

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == codec.ContentType {
		if err := codec.Unmarshal(body, target); err != nil {
			return fmt.Errorf("invalid CBOR body: %w", err)
		}
		return nil
	}

	decoder := json.NewDecoder(bytes.NewReader(body))
	decoder.UseNumber()
	if err := decoder.Decode(target); err != nil {
		return fmt.Errorf("invalid JSON body: %w", err)
	}
	if decoder.More() {
		return errors.New("invalid JSON body: trailing data")
	}
	return nil
}
