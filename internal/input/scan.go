package input

import (
	"fmt"
	"strconv"
	"strings"
	"sync"

	"fleetdesk/internal/lifecycle"
	"fleetdesk/internal/utils"
)

// CodeScanner is the platform camera/QR capability.
type CodeScanner interface {
	Start(onDecode func(code string)) error
	Stop() error
}

// ParseTripCode accepts "TRIP-<id>" or a bare numeric id.
func ParseTripCode(code string) (int64, error) {
	raw := strings.TrimSpace(code)
	if len(raw) > 5 && strings.EqualFold(raw[:5], "TRIP-") {
		raw = raw[5:]
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("unrecognized trip code %q", code)
	}
	return id, nil
}

// ScanCommand builds a scan confirmation. Mode must be start or complete.
func ScanCommand(code string, mode lifecycle.Action) (Command, error) {
	if mode != lifecycle.ActionStart && mode != lifecycle.ActionComplete {
		return Command{}, fmt.Errorf("scan mode %q not supported", mode)
	}
	id, err := ParseTripCode(code)
	if err != nil {
		return Command{}, err
	}
	return Command{TripID: id, Action: mode, Source: SourceScan}, nil
}

// ScanAdapter confirms a start or completion by scanning the trip code.
// Scanned commands go through the same window checks as manual ones.
type ScanAdapter struct {
	scanner CodeScanner
	mode    lifecycle.Action

	mu      sync.Mutex
	handler func(Command)
}

func NewScanAdapter(scanner CodeScanner, mode lifecycle.Action) *ScanAdapter {
	return &ScanAdapter{scanner: scanner, mode: mode}
}

func (a *ScanAdapter) Source() Source { return SourceScan }

func (a *ScanAdapter) OnCommand(handler func(Command)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.handler = handler
}

func (a *ScanAdapter) Start() error {
	if a.scanner == nil {
		return ErrAdapterUnavailable
	}
	return a.scanner.Start(a.Decode)
}

func (a *ScanAdapter) Stop() error {
	if a.scanner == nil {
		return nil
	}
	return a.scanner.Stop()
}

// Decode handles one scanned code; unreadable codes are logged and dropped.
func (a *ScanAdapter) Decode(code string) {
	cmd, err := ScanCommand(code, a.mode)
	if err != nil {
		utils.LogEvent("", "scan", "decode_error", err.Error())
		return
	}
	a.mu.Lock()
	h := a.handler
	a.mu.Unlock()
	if h != nil {
		h(cmd)
	}
}
