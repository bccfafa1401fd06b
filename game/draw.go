// game/draw.go - Ticket issuance and prize draw engine
package game

import (
	"fmt"
	"math/rand"
	"strings"
	"sync"
)

// TicketSource records how a ticket was obtained.
type TicketSource string

const (
	SourceAd       TicketSource = "ad"
	SourceCredits  TicketSource = "credits"
	SourceReferral TicketSource = "referral"
	SourceBonus    TicketSource = "bonus"
)

// ValidSource reports whether s is a known ticket source.
func ValidSource(s TicketSource) bool {
	switch s {
	case SourceAd, SourceCredits, SourceReferral, SourceBonus:
		return true
	}
	return false
}

// codeAlphabet omits 0/O/1/I/L to keep codes readable over the phone.
const codeAlphabet = "23456789ABCDEFGHJKMNPQRSTUVWXYZ"

// GenerateTicketCode produces a human-readable ticket code, retrying
// on collision against the caller's existing codes.
func GenerateTicketCode(existing map[string]bool, rng *rand.Rand) string {
	for {
		var b strings.Builder
		b.WriteString("WU-")
		for i := 0; i < 8; i++ {
			b.WriteByte(codeAlphabet[rng.Intn(len(codeAlphabet))])
		}
		code := b.String()
		if !existing[code] {
			return code
		}
	}
}

// WinProbability is the displayed win chance for a user holding
// ticketCount tickets on a prize: a linear bonus per ticket, capped at
// 1. This is a display estimate; the actual extraction samples over
// all issued tickets (see WeightedWinner).
func WinProbability(ticketCount int, perTicketBonus float64) float64 {
	if ticketCount <= 0 {
		return 0
	}
	p := float64(ticketCount) * perTicketBonus
	if p > 1 {
		return 1
	}
	return p
}

// ExtractionResult is the outcome of one simulated draw.
type ExtractionResult struct {
	IsWinner      bool
	WinningNumber int
	UserNumbers   []int
}

// TicketWeight is one participant ticket in a weighted draw.
type TicketWeight struct {
	TicketID uint
	Weight   int
}

// DrawEngine simulates prize extractions. Each draw is extracted at
// most once: repeated timer ticks or duplicate calls for the same draw
// id are silent no-ops.
type DrawEngine struct {
	mu        sync.Mutex
	extracted map[uint]bool
	rng       *rand.Rand
}

func NewDrawEngine(rng *rand.Rand) *DrawEngine {
	return &DrawEngine{extracted: make(map[uint]bool), rng: rng}
}

// Extracted reports whether the draw was already decided.
func (e *DrawEngine) Extracted(drawID uint) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.extracted[drawID]
}

// MarkExtracted records a draw decided elsewhere (e.g. loaded from
// storage at startup) so the monitor never re-triggers it.
func (e *DrawEngine) MarkExtracted(drawID uint) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.extracted[drawID] = true
}

// SimulateExtraction picks a winning number uniformly from all issued
// numbers for the draw and reports whether the user holds it. Returns
// nil if the draw was already extracted or no numbers were issued.
func (e *DrawEngine) SimulateExtraction(drawID uint, allNumbers, userNumbers []int) *ExtractionResult {
	e.mu.Lock()
	if e.extracted[drawID] {
		e.mu.Unlock()
		return nil
	}
	e.extracted[drawID] = true
	e.mu.Unlock()

	if len(allNumbers) == 0 {
		return &ExtractionResult{UserNumbers: userNumbers}
	}

	winning := allNumbers[e.rng.Intn(len(allNumbers))]
	result := &ExtractionResult{
		WinningNumber: winning,
		UserNumbers:   userNumbers,
	}
	for _, n := range userNumbers {
		if n == winning {
			result.IsWinner = true
			break
		}
	}
	return result
}

// WeightedWinner samples one winning ticket across all participants,
// weighted by ticket weight. The displayed probability and the draw
// share the same weights so the two can never disagree. Returns 0 when
// no tickets carry weight.
func (e *DrawEngine) WeightedWinner(tickets []TicketWeight) uint {
	total := 0
	for _, t := range tickets {
		if t.Weight > 0 {
			total += t.Weight
		}
	}
	if total == 0 {
		return 0
	}

	pick := e.rng.Intn(total)
	for _, t := range tickets {
		if t.Weight <= 0 {
			continue
		}
		pick -= t.Weight
		if pick < 0 {
			return t.TicketID
		}
	}
	return 0
}

// FormatTicketNumber renders a draw number the way the extraction
// overlay shows it, zero-padded to the draw's width.
func FormatTicketNumber(n, width int) string {
	return fmt.Sprintf("%0*d", width, n)
}
