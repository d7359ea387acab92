// ABOUTME: Classification of speech recognition failures into typed SpeechErrors
// ABOUTME: Structured gRPC status codes first, message heuristics as the fallback

package voice

import (
	"context"
	"errors"
	"net"
	"strings"

	coreerrors "songfinder-bot/core/errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// ClassifyRecognitionError maps a transcriber failure to a SpeechError.
// Structured signals win: an existing SpeechError, gRPC status codes, context
// deadlines and net.Error. Only unstructured errors fall back to message text.
func ClassifyRecognitionError(err error) *coreerrors.SpeechError {
	if err == nil {
		return nil
	}

	if speechErr, ok := coreerrors.AsSpeechError(err); ok {
		return speechErr
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return &coreerrors.SpeechError{Kind: coreerrors.SpeechNetwork, Err: err}
	}

	if st, ok := status.FromError(err); ok && st.Code() != codes.Unknown {
		switch st.Code() {
		case codes.Unavailable, codes.DeadlineExceeded:
			return &coreerrors.SpeechError{Kind: coreerrors.SpeechNetwork, Err: err}
		case codes.InvalidArgument, codes.OutOfRange:
			return &coreerrors.SpeechError{Kind: coreerrors.SpeechUnintelligible, Err: err}
		default:
			return &coreerrors.SpeechError{Kind: coreerrors.SpeechService, Err: err}
		}
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return &coreerrors.SpeechError{Kind: coreerrors.SpeechNetwork, Err: err}
	}

	if looksLikeNetworkFailure(err.Error()) {
		return &coreerrors.SpeechError{Kind: coreerrors.SpeechNetwork, Err: err}
	}
	return &coreerrors.SpeechError{Kind: coreerrors.SpeechService, Err: err}
}

// looksLikeNetworkFailure is the text heuristic for errors without structure
func looksLikeNetworkFailure(msg string) bool {
	return strings.Contains(msg, "Connection") || strings.Contains(msg, "Network")
}
