package trigger

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/cyberxai/cyberxai/pkg/config"
	"github.com/cyberxai/cyberxai/pkg/protocol"
	"github.com/cyberxai/cyberxai/pkg/types"
)

const (
	titleDefault   = "CyberXAI"
	titleSelection = "CyberXAI — Selection"
	titlePageScan  = "CyberXAI — Page Scan"

	msgPageUnreachable = "Cannot talk to this page. Try reloading it."
	msgHostUnavailable = "Native host unavailable."
	msgHostError       = "Host error."
	msgExtensionError  = "Extension error: "

	unknownCategory = "unknown"
	defaultMaxHits  = 5
)

// Message is what a surface displays. Surfaces without a title slot
// ignore Title.
type Message struct {
	Title string
	Body  string
}

// Style holds the per-surface formatting choices.
type Style struct {
	// ClassifyPrecision is the number of decimals of p_bully in a verdict.
	ClassifyPrecision int
	// HitPrecision is the number of decimals of p_bully in a scan hit.
	HitPrecision int
	// HitBullet prefixes every hit line.
	HitBullet string
	// MaxHits caps the hits shown; the count always reports all of them.
	MaxHits int
	// CountInBody puts the "N hit(s)" line at the top of the body instead
	// of in the title.
	CountInBody bool

	NoSelection string
	NoPageText  string
}

// OverlayStyle is the page overlay's formatting.
func OverlayStyle(s config.DisplaySettings) Style {
	return Style{
		ClassifyPrecision: s.OverlayPrecision,
		HitPrecision:      s.OverlayHitPrecision,
		HitBullet:         "• ",
		MaxHits:           s.MaxHits,
		NoSelection:       "No selection detected.",
		NoPageText:        "No text found on page.",
	}
}

// PopupStyle is the popup panel's formatting.
func PopupStyle(s config.DisplaySettings) Style {
	return Style{
		ClassifyPrecision: s.PopupPrecision,
		HitPrecision:      s.PopupHitPrecision,
		MaxHits:           s.MaxHits,
		CountInBody:       true,
		NoSelection:       "No selection on this tab.",
		NoPageText:        "No page text.",
	}
}

func formatProb(p float64, precision int) string {
	if precision < 0 {
		precision = 0
	}
	return strconv.FormatFloat(p, 'f', precision, 64)
}

func category(c string) string {
	if c == "" {
		return unknownCategory
	}
	return c
}

// Verdict renders a classify result.
func (s Style) Verdict(r *protocol.ClassifyResult) Message {
	p := formatProb(r.PBully, s.ClassifyPrecision)
	if r.IsBullying() {
		return Message{
			Title: titleSelection,
			Body:  fmt.Sprintf("CYBERBULLYING (%s)  p=%s", category(r.Category()), p),
		}
	}
	return Message{Title: titleSelection, Body: "NOT CYBERBULLYING  p=" + p}
}

// ScanReport renders a scan result: the first MaxHits hits in host order,
// with the total count.
func (s Style) ScanReport(r *protocol.ScanResult) Message {
	if len(r.Hits) == 0 {
		return Message{
			Title: titlePageScan,
			Body:  fmt.Sprintf("No bullying detected (chunks: %d).", r.TotalChunks),
		}
	}

	limit := s.MaxHits
	if limit <= 0 {
		limit = defaultMaxHits
	}
	shown := r.Hits
	if len(shown) > limit {
		shown = shown[:limit]
	}

	count := fmt.Sprintf("%d hit(s)", len(r.Hits))
	lines := make([]string, 0, len(shown)+1)
	if s.CountInBody {
		lines = append(lines, count)
	}
	for _, h := range shown {
		lines = append(lines, fmt.Sprintf("%s[%s] p=%s — %s",
			s.HitBullet, category(h.Category()), formatProb(h.PBully, s.HitPrecision), h.Snippet))
	}

	return Message{Title: titleDefault + " — " + count, Body: strings.Join(lines, "\n")}
}

// Notice renders a failure of the given kind.
func (s Style) Notice(kind types.ErrorKind, mode types.Mode, err error) Message {
	var body string
	switch kind {
	case types.KindNoTextFound:
		body = s.NoPageText
		if mode == types.ModeSelection {
			body = s.NoSelection
		}
	case types.KindPageUnreachable:
		body = msgPageUnreachable
	case types.KindHostUnavailable:
		body = msgHostUnavailable
	case types.KindHostError:
		body = msgHostError
	default:
		body = msgExtensionError + errorText(err)
	}
	return Message{Title: titleDefault, Body: body}
}

func errorText(err error) string {
	if err == nil {
		return "unknown error"
	}
	return err.Error()
}
