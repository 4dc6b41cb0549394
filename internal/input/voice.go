package input

import (
	"strings"
	"sync"
	"unicode"

	"fleetdesk/internal/lifecycle"
	"fleetdesk/internal/utils"
)

// SpeechRecognizer is the platform speech capability. Start delivers each
// final transcript to onResult until Stop is called.
type SpeechRecognizer interface {
	Start(onResult func(transcript string)) error
	Stop() error
}

var voiceKeywords = []struct {
	phrase string
	action lifecycle.Action
}{
	{"start trip", lifecycle.ActionStart},
	{"end trip", lifecycle.ActionComplete},
	{"complete", lifecycle.ActionComplete},
	{"report", lifecycle.ActionReport},
	{"issue", lifecycle.ActionReport},
	{"manifest", lifecycle.ActionManifest},
}

// MatchVoiceCommand maps a transcript to an action by keyword. Keywords
// match whole words only, checked in list order.
func MatchVoiceCommand(transcript string) (lifecycle.Action, bool) {
	words := voiceWords(transcript)
	if len(words) == 0 {
		return "", false
	}
	for _, kw := range voiceKeywords {
		if containsWords(words, strings.Fields(kw.phrase)) {
			return kw.action, true
		}
	}
	return "", false
}

func voiceWords(transcript string) []string {
	return strings.FieldsFunc(strings.ToLower(transcript), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// containsWords reports whether phrase appears as a contiguous run in words.
func containsWords(words, phrase []string) bool {
	for i := 0; i+len(phrase) <= len(words); i++ {
		match := true
		for j, p := range phrase {
			if words[i+j] != p {
				match = false
				break
			}
		}
		if match {
			return true
		}
	}
	return false
}

// VoiceCommand builds a command for the trip currently on screen. Report
// commands carry the transcript as incident details.
func VoiceCommand(tripID int64, transcript string) (Command, bool) {
	action, ok := MatchVoiceCommand(transcript)
	if !ok {
		return Command{}, false
	}
	cmd := Command{TripID: tripID, Action: action, Source: SourceVoice}
	if action == lifecycle.ActionReport {
		cmd.Details = utils.NormalizeSpace(transcript)
	}
	return cmd, true
}

// VoiceAdapter turns recognized speech into commands. CurrentTrip supplies
// the trip the driver is looking at.
type VoiceAdapter struct {
	recognizer  SpeechRecognizer
	currentTrip func() int64

	mu      sync.Mutex
	handler func(Command)
}

func NewVoiceAdapter(recognizer SpeechRecognizer, currentTrip func() int64) *VoiceAdapter {
	return &VoiceAdapter{recognizer: recognizer, currentTrip: currentTrip}
}

func (a *VoiceAdapter) Source() Source { return SourceVoice }

func (a *VoiceAdapter) OnCommand(handler func(Command)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.handler = handler
}

func (a *VoiceAdapter) Start() error {
	if a.recognizer == nil {
		return ErrAdapterUnavailable
	}
	return a.recognizer.Start(a.Hear)
}

func (a *VoiceAdapter) Stop() error {
	if a.recognizer == nil {
		return nil
	}
	return a.recognizer.Stop()
}

// Hear handles one transcript. Unrecognized speech is ignored.
func (a *VoiceAdapter) Hear(transcript string) {
	var tripID int64
	if a.currentTrip != nil {
		tripID = a.currentTrip()
	}
	cmd, ok := VoiceCommand(tripID, transcript)
	if !ok {
		return
	}
	a.mu.Lock()
	h := a.handler
	a.mu.Unlock()
	if h != nil {
		h(cmd)
	}
}
