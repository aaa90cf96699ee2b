package monitor

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/barnwall/hbmon/internal/telemetry"
	"github.com/barnwall/hbmon/internal/ui"
	"github.com/charmbracelet/x/ansi"
)

// Placeholder fills any cell without a value.
const Placeholder = "--"

// Columns is the device table layout. The firmware field for each data
// column follows the same order in rowFields.
var Columns = []ui.TableColumn{
	{Title: "Device", Width: 6},
	{Title: "IP", Width: 15},
	{Title: "Uptime(ms)", Width: 12},
	{Title: "Link", Width: 5},
	{Title: "Rx", Width: 10},
	{Title: "Complete", Width: 10},
	{Title: "Applied", Width: 10},
	{Title: "Dropped", Width: 10},
	{Title: "Last Seen", Width: 10},
}

var rowFields = []string{
	telemetry.FieldIP,
	telemetry.FieldUptime,
	telemetry.FieldLink,
	telemetry.FieldRxFrames,
	telemetry.FieldComplete,
	telemetry.FieldApplied,
	telemetry.FieldDropped,
}

// RenderOptions carries the frame context that is not device state.
type RenderOptions struct {
	Port        int
	StaleAfter  time.Duration
	Stats       Stats
	Interactive bool
	// LastReject is the most recent dropped datagram, shown in the title.
	LastReject error
}

// Render builds one full frame: title line, device table, optional footer.
// devices should come from Store.Snapshot so every known device has a row.
func Render(devices []telemetry.DeviceState, now time.Time, opts RenderOptions) string {
	rows := make([][]string, 0, len(devices))
	for _, d := range devices {
		rows = append(rows, deviceRow(d, now))
	}

	var b strings.Builder
	b.WriteString(renderTitle(devices, now, opts))
	b.WriteString("\n\n")
	b.WriteString(ui.RenderSimpleTable(Columns, rows))
	if opts.Interactive {
		b.WriteString("\n\n")
		b.WriteString(FooterStyle.Render(KeyQuit + " quit"))
	}
	return b.String()
}

// deviceRow formats one table row. A never-seen device gets the placeholder
// in every column after its id.
func deviceRow(d telemetry.DeviceState, now time.Time) []string {
	row := make([]string, 0, len(Columns))
	row = append(row, string(d.ID))

	if !d.Entry.Seen {
		for range Columns[1:] {
			row = append(row, Placeholder)
		}
		return row
	}

	for _, field := range rowFields {
		v, ok := d.Entry.Record.Text(field)
		v = cellText(v)
		if !ok || v == "" {
			v = Placeholder
		}
		row = append(row, v)
	}
	return append(row, FormatLastSeen(d.Entry, now))
}

// FormatLastSeen renders the seconds since the last heartbeat, or the
// placeholder if the device never reported.
func FormatLastSeen(e telemetry.Entry, now time.Time) string {
	elapsed, ok := telemetry.Staleness(e, now)
	if !ok {
		return Placeholder
	}
	return fmt.Sprintf("%.1fs", elapsed.Seconds())
}

func renderTitle(devices []telemetry.DeviceState, now time.Time, opts RenderOptions) string {
	reporting := 0
	indicators := make([]string, 0, len(devices))
	for _, d := range devices {
		fresh := telemetry.Fresh(d.Entry, now, opts.StaleAfter)
		if fresh {
			reporting++
		}
		indicators = append(indicators, statusIndicator(d.Entry.Seen, fresh)+" "+string(d.ID))
	}

	summary := fmt.Sprintf("%d/%d reporting", reporting, len(devices))
	counts := fmt.Sprintf("accepted %d", opts.Stats.Accepted)
	rejected := fmt.Sprintf("rejected %d", opts.Stats.Rejected)
	if opts.Stats.Rejected > 0 {
		rejected = RejectedStyle.Render(rejected)
	}

	parts := []string{
		TitleStyle.Render(fmt.Sprintf("hbmon  udp :%d", opts.Port)),
		strings.Join(indicators, "  "),
		SummaryStyle.Render(summary),
		SummaryStyle.Render(counts) + "  " + rejected,
	}
	if opts.LastReject != nil {
		parts = append(parts, RejectedStyle.Render("last drop: "+rejectReason(opts.LastReject)))
	}
	return strings.Join(parts, "   ")
}

// rejectReason names why a datagram was dropped without echoing its payload.
func rejectReason(err error) string {
	for _, sentinel := range []error{telemetry.ErrInvalidUTF8, telemetry.ErrMalformed, telemetry.ErrUnknownDevice} {
		if errors.Is(err, sentinel) {
			return sentinel.Error()
		}
	}
	return cellText(err.Error())
}

// cellText drops escape sequences and control characters so datagram
// contents can't move the cursor or repaint the operator's terminal.
func cellText(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, ansi.Strip(s))
}
