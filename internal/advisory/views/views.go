// Package views renders snapshots for the terminal, as tables or JSON.
package views

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/cloudwego/eino/schema"
	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/fasal-sarthi-core/client/internal/advisory/async"
	"github.com/fasal-sarthi-core/client/internal/advisory/model"
	"github.com/fasal-sarthi-core/client/internal/advisory/orchestrators"
	"github.com/fasal-sarthi-core/client/internal/advisory/weather"
)

const loadingText = "Loading..."

// Renderer writes views to w. Every method is a pure function of its input.
type Renderer struct {
	w      io.Writer
	asJSON bool
}

func New(w io.Writer, asJSON bool) *Renderer {
	return &Renderer{w: w, asJSON: asJSON}
}

func (r *Renderer) Weather(snap weather.Snapshot) error {
	if r.asJSON {
		return r.json(snap)
	}
	tw := r.table("Weather: " + snap.Selection)
	if !appendStatus(tw, snap.Weather) {
		tw.Render()
		return nil
	}
	w, _ := snap.Weather.Value()
	location := w.City
	if w.Country != "" {
		location += ", " + w.Country
	}
	tw.AppendRows([]table.Row{
		{"Location", location},
		{"Condition", w.Description},
		{"Temperature", celsius(w.Temperature)},
		{"Feels like", celsius(w.FeelsLike)},
		{"Min / Max", celsius(w.TempMin) + " / " + celsius(w.TempMax)},
		{"Humidity", fmt.Sprintf("%.0f%%", w.Humidity)},
		{"Pressure", fmt.Sprintf("%.0f hPa", w.Pressure)},
		{"Clouds", fmt.Sprintf("%.0f%%", w.Clouds)},
		{"Wind", fmt.Sprintf("%.1f m/s %s", w.WindSpeed, w.WindDirection)},
	})
	if w.Visibility != nil {
		tw.AppendRow(table.Row{"Visibility", fmt.Sprintf("%.1f km", *w.Visibility)})
	}
	if w.Rain1h != nil {
		tw.AppendRow(table.Row{"Rain (1h)", fmt.Sprintf("%.1f mm", *w.Rain1h)})
	}
	tw.AppendRows([]table.Row{
		{"Sunrise", w.Sunrise},
		{"Sunset", w.Sunset},
	})
	tw.Render()
	return nil
}

func (r *Renderer) Scan(snap orchestrators.ScanSnapshot) error {
	if r.asJSON {
		return r.json(snap)
	}
	tw := r.table("Disease scan")
	if appendStatus(tw, snap.Primary) {
		d, _ := snap.Primary.Value()
		tw.AppendRows([]table.Row{
			{"Disease", d.DisplayName()},
			{"Confidence", d.Confidence},
		})
	}
	tw.Render()
	return r.followUp("Cure", snap.Secondary)
}

func (r *Renderer) Crop(snap orchestrators.CropSnapshot) error {
	if r.asJSON {
		return r.json(snap)
	}
	tw := r.table("Crop recommendation")
	if appendStatus(tw, snap.Primary) {
		rec, _ := snap.Primary.Value()
		tw.AppendRow(table.Row{"Recommended crop", rec.CropName})
	}
	tw.Render()
	return r.followUp("Farming advice", snap.Secondary)
}

func (r *Renderer) Fertilizer(snap orchestrators.FertilizerSnapshot) error {
	if r.asJSON {
		return r.json(snap)
	}
	tw := r.table("Fertilizer recommendation")
	if appendStatus(tw, snap.State) {
		rec, _ := snap.State.Value()
		tw.AppendRow(table.Row{"Recommended fertilizer", rec.FertilizerName})
	}
	tw.Render()
	return nil
}

// Chat renders the whole session transcript.
func (r *Renderer) Chat(snap orchestrators.ChatSnapshot) error {
	if r.asJSON {
		return r.json(snap)
	}
	tw := r.table("Session " + snap.SessionID)
	tw.AppendHeader(table.Row{"#", "Speaker", "Message"})
	for i, t := range snap.Turns {
		tw.AppendRow(table.Row{i + 1, speaker(t.Role), t.Text})
	}
	tw.Render()
	return nil
}

// Turn prints a single chat turn, used by the interactive session.
func (r *Renderer) Turn(t model.ChatTurn) error {
	if r.asJSON {
		return r.json(t)
	}
	_, err := fmt.Fprintf(r.w, "%s: %s\n", speaker(t.Role), t.Text)
	return err
}

// Transcript renders an archived session.
func (r *Renderer) Transcript(sessionID string, msgs []*schema.Message) error {
	if r.asJSON {
		return r.json(map[string]any{"session_id": sessionID, "messages": msgs})
	}
	tw := r.table("Transcript " + sessionID)
	tw.AppendHeader(table.Row{"#", "Speaker", "Message"})
	for i, m := range msgs {
		if m == nil {
			continue
		}
		tw.AppendRow(table.Row{i + 1, speaker(m.Role), m.Content})
	}
	tw.Render()
	return nil
}

func (r *Renderer) followUp(title string, st async.State[model.ChatReply]) error {
	if st.Status == async.Idle {
		return nil
	}
	tw := r.table(title)
	if appendStatus(tw, st) {
		reply, _ := st.Value()
		tw.AppendRow(table.Row{reply.Text})
	}
	tw.Render()
	return nil
}

func (r *Renderer) table(title string) table.Writer {
	tw := table.NewWriter()
	tw.SetOutputMirror(r.w)
	tw.SetTitle(title)
	tw.SetStyle(table.StyleLight)
	return tw
}

func (r *Renderer) json(v any) error {
	enc := json.NewEncoder(r.w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// appendStatus writes the row for a non-successful state and reports
// whether the caller should render the result instead.
func appendStatus[T any](tw table.Writer, st async.State[T]) bool {
	switch st.Status {
	case async.Succeeded:
		return true
	case async.Pending:
		tw.AppendRow(table.Row{loadingText})
	case async.Failed:
		tw.AppendRow(table.Row{"Error: " + st.ErrorMessage})
	default:
		tw.AppendRow(table.Row{"Nothing to show yet."})
	}
	return false
}

func speaker(role schema.RoleType) string {
	if role == schema.User {
		return "You"
	}
	return "Sarthi AI"
}

func celsius(v float64) string {
	return fmt.Sprintf("%.1f°C", v)
}
