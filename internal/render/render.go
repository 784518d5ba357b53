// Package render draws directory data as terminal tables.
package render

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/EO-DataHub/eodhp-directory-admin/internal/editor"
	"github.com/EO-DataHub/eodhp-directory-admin/internal/search"
	"github.com/EO-DataHub/eodhp-directory-admin/models"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

var (
	colorAccent = lipgloss.Color("#20B9B4")
	colorBorder = lipgloss.Color("#16858E")
	colorError  = lipgloss.Color("#E74C3C")
	colorOK     = lipgloss.Color("#2CD7C7")

	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(colorAccent).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	errorStyle  = lipgloss.NewStyle().Foreground(colorError)
	okStyle     = lipgloss.NewStyle().Foreground(colorOK)
	bannerStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorError).Padding(0, 1)
)

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorBorder)).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		Headers(headers...)
}

// Users writes the user table.
func Users(w io.Writer, rows []search.Row) error {
	t := newTable("USERNAME", "EMAIL", "DISPLAY NAME", "FIRST NAME", "LAST NAME", "CREATED", "GROUPS")
	for _, r := range rows {
		t.Row(r.ID, r.Email, r.DisplayName, r.FirstName, r.LastName, r.Created, strings.Join(r.Groups, ", "))
	}
	_, err := fmt.Fprintln(w, t.Render())
	return err
}

// Groups writes the group table.
func Groups(w io.Writer, groups []models.Group) error {
	t := newTable("ID", "NAME", "CREATED")
	for _, g := range groups {
		t.Row(strconv.Itoa(g.ID), g.DisplayName, formatDate(g))
	}
	_, err := fmt.Fprintln(w, t.Render())
	return err
}

// Group writes a group and its members.
func Group(w io.Writer, group *models.Group) error {
	fmt.Fprintln(w, titleStyle.Render(fmt.Sprintf("%s (%d)", group.DisplayName, group.ID)))
	fmt.Fprintf(w, "uuid:    %s\ncreated: %s\n", group.UUID, formatDate(*group))

	t := newTable("MEMBER", "DISPLAY NAME")
	for _, u := range group.Users {
		t.Row(u.ID, u.DisplayName)
	}
	_, err := fmt.Fprintln(w, t.Render())
	return err
}

// UserDetail writes the edited user, its groups and the groups it can join.
func UserDetail(w io.Writer, e *editor.UserEditor) error {
	user, err := e.Editable()
	if err != nil {
		return err
	}

	fmt.Fprintln(w, titleStyle.Render(fmt.Sprintf("%s  %s", e.Avatar(), user.ID)))
	fields := newTable("FIELD", "VALUE")
	fields.Row("email", user.Email)
	fields.Row("display name", user.DisplayName)
	fields.Row("first name", user.FirstName)
	fields.Row("last name", user.LastName)
	fields.Row("uuid", user.UUID.String())
	if !user.CreationDate.IsZero() {
		fields.Row("created", user.CreationDate.UTC().Format(search.DateFormat))
	}
	for _, attr := range user.Attributes {
		fields.Row(attr.Name, strings.Join(attr.Value, ", "))
	}
	fmt.Fprintln(w, fields.Render())

	groups := newTable("GROUP ID", "GROUP", "MEMBER")
	for _, g := range user.Groups {
		groups.Row(strconv.Itoa(g.ID), g.DisplayName, "yes")
	}
	for _, g := range e.AvailableGroups() {
		groups.Row(strconv.Itoa(g.ID), g.DisplayName, "")
	}
	_, err = fmt.Fprintln(w, groups.Render())
	return err
}

// SaveReport writes one line per save call and the banner of the last
// failure, if any.
func SaveReport(w io.Writer, report editor.SaveReport) error {
	t := newTable("CALL", "GROUP", "RESULT")
	for _, o := range report.Outcomes {
		group := ""
		if o.Kind != editor.OutcomeUpdate {
			group = fmt.Sprintf("%s (%d)", o.GroupName, o.GroupID)
		}
		result := okStyle.Render("ok")
		if !o.OK() {
			result = errorStyle.Render(o.Error)
		}
		t.Row(string(o.Kind), group, result)
	}
	fmt.Fprintln(w, t.Render())

	if banner := report.LastError(); banner != "" {
		_, err := fmt.Fprintln(w, bannerStyle.Render(banner))
		return err
	}
	return nil
}

// Error writes err as an error banner.
func Error(w io.Writer, err error) {
	fmt.Fprintln(w, bannerStyle.Render(errorStyle.Render(err.Error())))
}

func formatDate(g models.Group) string {
	if g.CreationDate.IsZero() {
		return ""
	}
	return g.CreationDate.UTC().Format(search.DateFormat)
}
