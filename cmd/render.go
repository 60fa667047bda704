package cmd

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"drishti-cli/internal/classify"
	"drishti-cli/internal/notify"
	"drishti-cli/internal/view"
	"drishti-cli/pkg/models"
)

func renderBanner(w io.Writer, b notify.BannerState) {
	if !b.Active {
		return
	}
	fmt.Fprintf(w, "%s\n  %s (since %s)\n\n", b.Text, b.Detail, b.Since.Format(time.TimeOnly))
}

func renderAlerts(w io.Writer, rows []view.AlertRow) {
	if len(rows) == 0 {
		fmt.Fprintln(w, "No alerts in the current window.")
		return
	}

	tw := tabwriter.NewWriter(w, 0, 0, 3, ' ', 0)
	fmt.Fprintln(tw, "\tSEVERITY\tTYPE\tMESSAGE\tAGE")
	fmt.Fprintln(tw, "\t--------\t----\t-------\t---")

	for _, r := range rows {
		fmt.Fprintf(tw, "%s\t%s\t%s %s\t%s\t%s\n",
			r.Style.Icon,
			r.Alert.Severity,
			r.TypeIcon,
			r.Alert.Type,
			r.Alert.Message,
			r.Age,
		)
	}
	tw.Flush()
}

func renderSoldiers(w io.Writer, rows []view.SoldierRow) {
	if len(rows) == 0 {
		fmt.Fprintln(w, "No soldiers reported.")
		return
	}

	tw := tabwriter.NewWriter(w, 0, 0, 3, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tSTATUS\tHEART RATE\tGPS\tLAST UPDATE")
	fmt.Fprintln(tw, "--\t----\t------\t----------\t---\t-----------")

	for _, r := range rows {
		hr := fmt.Sprintf("%d bpm", r.Soldier.HeartRate)
		if r.HeartRateAnomaly {
			hr += " !"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s %s\t%s\t%s\t%s\n",
			r.Soldier.ID,
			r.Soldier.Name,
			r.Style.Icon,
			r.Soldier.Status,
			hr,
			r.Position,
			r.LastSeen,
		)
	}
	tw.Flush()
}

func renderOverlays(w io.Writer, overlays []view.Overlay) {
	if len(overlays) == 0 {
		fmt.Fprintln(w, "No detections in the current frame.")
		return
	}

	tw := tabwriter.NewWriter(w, 0, 0, 3, ' ', 0)
	fmt.Fprintln(tw, "LABEL\tCONFIDENCE\tLEFT\tTOP\tWIDTH\tHEIGHT")
	fmt.Fprintln(tw, "-----\t----------\t----\t---\t-----\t------")

	for _, o := range overlays {
		fmt.Fprintf(tw, "%s\t%d%%\t%.0f\t%.0f\t%.0f\t%.0f\n",
			o.Label,
			o.Confidence,
			o.Rect.Left,
			o.Rect.Top,
			o.Rect.Width,
			o.Rect.Height,
		)
	}
	tw.Flush()
}

// renderMap draws the soldier markers row by row in map grid order.
func renderMap(w io.Writer, rows []view.SoldierRow) {
	if len(rows) == 0 {
		fmt.Fprintln(w, "No soldier data.")
		return
	}

	var line []string
	lastY := rows[0].Marker.Y
	for _, r := range rows {
		if r.Marker.Y != lastY {
			fmt.Fprintln(w, strings.Join(line, "   "))
			line, lastY = nil, r.Marker.Y
		}
		line = append(line, fmt.Sprintf("%s %-8s", r.Style.Icon, r.Soldier.ID))
	}
	fmt.Fprintln(w, strings.Join(line, "   "))
}

func renderCounts(w io.Writer, v view.View) {
	fmt.Fprintf(w, "Alerts  %s %d  %s %d  %s %d    Soldiers  %s %d  %s %d  %s %d\n",
		classify.Severity(models.SeverityHigh).Icon, v.AlertCounts[models.SeverityHigh],
		classify.Severity(models.SeverityMedium).Icon, v.AlertCounts[models.SeverityMedium],
		classify.Severity(models.SeverityLow).Icon, v.AlertCounts[models.SeverityLow],
		classify.Status(models.StatusOK).Icon, v.StatusCounts[models.StatusOK],
		classify.Status(models.StatusAtRisk).Icon, v.StatusCounts[models.StatusAtRisk],
		classify.Status(models.StatusCritical).Icon, v.StatusCounts[models.StatusCritical],
	)
}

// renderDashboard draws one full frame of the watch screen.
func renderDashboard(w io.Writer, v view.View) {
	renderBanner(w, v.Banner)

	fmt.Fprintf(w, "VeerDrishti  %s  filter=%s\n", v.GeneratedAt.Format(time.TimeOnly), v.Filter)
	renderCounts(w, v)

	fmt.Fprintln(w, "\n== Detections ==")
	renderOverlays(w, v.Overlays)

	fmt.Fprintln(w, "\n== Soldiers ==")
	renderSoldiers(w, v.Soldiers)

	fmt.Fprintln(w, "\n== Tactical Map ==")
	renderMap(w, v.Soldiers)

	fmt.Fprintln(w, "\n== Alerts ==")
	renderAlerts(w, v.Alerts)
}
