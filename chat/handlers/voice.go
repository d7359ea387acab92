// ABOUTME: Voice query flow for the chat handler: download, transcribe, search
// ABOUTME: Maps typed speech failures to the chat replies users see

package handlers

import (
	"context"
	"fmt"

	coreerrors "songfinder-bot/core/errors"
	"songfinder-bot/pkg/featureflags"
	"songfinder-bot/pkg/utils/duration"
)

const defaultVoiceMimeType = "audio/ogg"

// MaxVoiceSeconds is the longest voice note sent for synchronous recognition
const MaxVoiceSeconds = 60

// handleVoice downloads, transcribes and searches a voice query
func (h *Handler) handleVoice(ctx context.Context, upd Update) {
	if !h.voiceEnabled(ctx) {
		h.sendText(ctx, upd.ChatID, voiceDisabledText)
		return
	}

	if upd.Voice.DurationSec > MaxVoiceSeconds {
		h.sendText(ctx, upd.ChatID, voiceTooLongText(MaxVoiceSeconds))
		return
	}

	h.sendText(ctx, upd.ChatID, listeningText)

	audio, err := h.downloader.Download(ctx, upd.Voice.FileID)
	if err != nil {
		h.logWarn("Voice download failed", upd, err)
		h.sendText(ctx, upd.ChatID, fmt.Sprintf(voiceFailureFormat, err.Error()))
		return
	}

	mimeType := upd.Voice.MimeType
	if mimeType == "" {
		mimeType = defaultVoiceMimeType
	}

	transcript, err := h.voice.Transcribe(ctx, audio, mimeType)
	if err != nil {
		h.sendText(ctx, upd.ChatID, voiceErrorText(err))
		return
	}

	h.logDebug("Voice query recognized", upd, map[string]interface{}{
		"transcript": transcript,
		"bytes":      len(audio),
	})
	h.sendText(ctx, upd.ChatID, heardText(transcript))
	h.runSearch(ctx, upd, transcript, true)
}

// voiceEnabled reports whether voice queries are accepted.
// Without a flag manager voice follows the wiring alone.
func (h *Handler) voiceEnabled(ctx context.Context) bool {
	if h.voice == nil || h.downloader == nil || !h.voice.Available() {
		return false
	}
	return h.flags == nil || featureflags.IsEnabled(ctx, featureflags.VoiceEnabled)
}

func voiceTooLongText(maxSeconds int) string {
	return fmt.Sprintf(voiceTooLongFormat, duration.SecondsToHumanReadable(maxSeconds))
}

// voiceErrorText maps a transcription failure to the chat reply
func voiceErrorText(err error) string {
	speechErr, ok := coreerrors.AsSpeechError(err)
	if !ok {
		return fmt.Sprintf(voiceFailureFormat, err.Error())
	}

	switch speechErr.Kind {
	case coreerrors.SpeechUnintelligible:
		return unintelligibleText
	case coreerrors.SpeechNetwork:
		return networkErrorText
	default:
		return fmt.Sprintf(speechServiceFormat, speechErr.Error())
	}
}
