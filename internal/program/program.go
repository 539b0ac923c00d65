// Package program is the desktop front end: it wires the attendance store,
// the edit session and the exporters to fyne widgets.
package program

import (
	"fmt"
	"image/color"
	"log/slog"
	"os"
	"strconv"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"

	"github.com/srprime/attendance/config"
	"github.com/srprime/attendance/internal/export"
	"github.com/srprime/attendance/internal/model"
	"github.com/srprime/attendance/internal/session"
	"github.com/srprime/attendance/internal/storage"
	"github.com/srprime/attendance/internal/store"
	"github.com/srprime/attendance/internal/theme"
)

const layoutLong = "Monday, 02 Jan 2006"

type gradeRow struct {
	present    *widget.Entry
	absent     *widget.Entry
	presentPct *widget.Label
	absentPct  *widget.Label
	save       *widget.Button
}

type MainApp struct {
	cfg     *config.AppConfig
	log     *slog.Logger
	closeDB func() error
	store   *store.Store
	session *session.Session
	now     func() time.Time

	app fyne.App
	win fyne.Window

	dateLabel  *widget.Label
	prevBtn    *widget.Button
	nextBtn    *widget.Button
	bulkBtn    *widget.Button
	saveAllBtn *widget.Button
	cancelBtn  *widget.Button
	rows       map[model.Grade]*gradeRow
	refreshing bool
}

// NewMainApp loads config and data from the per-user application folder.
// Neither a broken config nor an unavailable database stops the app.
func NewMainApp(logger *slog.Logger) *MainApp {
	if logger == nil {
		logger = slog.Default()
	}

	dataDir := config.AppDataFolder(config.FolderName)
	cfg, existed, err := config.Load(dataDir)
	if err != nil {
		logger.Error("failed to load config, using defaults", "dir", dataDir, "error", err)
		cfg = config.Defaults(dataDir)
	} else if !existed {
		logger.Info("created default config", "dir", cfg.DataDir(), "app_id", cfg.AppID)
	}

	var (
		kv      storage.KV
		closeDB = func() error { return nil }
	)
	db, err := storage.OpenSQLite(cfg.DatabasePath())
	if err != nil {
		logger.Error("database unavailable, attendance will not be saved", "path", cfg.DatabasePath(), "error", err)
		kv = storage.NewMemory()
	} else {
		kv = db
		closeDB = db.Close
	}

	a := newMainApp(theme.Apply(app.NewWithID("com.srprime.attendance")), cfg, kv, logger, time.Now)
	a.closeDB = closeDB
	return a
}

func newMainApp(fa fyne.App, cfg *config.AppConfig, kv storage.KV, logger *slog.Logger, now func() time.Time) *MainApp {
	st := store.New(kv, cfg.StorageKey, logger)
	m := &MainApp{
		cfg:     cfg,
		log:     logger,
		closeDB: func() error { return nil },
		store:   st,
		session: session.New(st, now()),
		now:     now,
		app:     fa,
		rows:    map[model.Grade]*gradeRow{},
	}

	m.buildMainMenu()
	m.win.SetContent(m.buildMainContent())
	m.refresh()
	return m
}

func (m *MainApp) buildMainMenu() {
	m.win = m.app.NewWindow(m.cfg.SchoolName)

	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("Export CSV", m.exportCSV),
		fyne.NewMenuItem("Export PDF", m.exportPDF),
		fyne.NewMenuItem("Export Spreadsheet", m.exportXLSX),
	)

	helpMenu := fyne.NewMenu("Help",
		fyne.NewMenuItem("About", func() {
			dialog.ShowInformation("About",
				fmt.Sprintf("%s\n%s\nInstall %s", m.cfg.SchoolName, m.cfg.SchoolPlace, m.cfg.AppID), m.win)
		}),
	)

	m.win.SetMainMenu(fyne.NewMainMenu(fileMenu, helpMenu))
}

func (m *MainApp) buildMainContent() fyne.CanvasObject {
	title := widget.NewLabelWithStyle(m.cfg.SchoolName, fyne.TextAlignCenter, fyne.TextStyle{Bold: true})
	place := widget.NewLabelWithStyle(m.cfg.SchoolPlace, fyne.TextAlignCenter, fyne.TextStyle{})

	m.dateLabel = widget.NewLabelWithStyle("", fyne.TextAlignCenter, fyne.TextStyle{Bold: true})
	m.prevBtn = widget.NewButton("◀", func() {
		m.session.Prev()
		m.refresh()
	})
	m.nextBtn = widget.NewButton("▶", func() {
		m.session.Next()
		m.refresh()
	})
	todayBtn := widget.NewButton("Today", func() {
		m.session.SetDate(m.now())
		m.refresh()
	})
	nav := container.NewBorder(nil, nil, m.prevBtn, container.NewHBox(todayBtn, m.nextBtn), m.dateLabel)

	table := container.New(layout.NewGridLayoutWithColumns(7))
	for _, h := range []string{"Class Grade", "Strength", "Present", "Absent", "Present %", "Absent %", ""} {
		table.Add(widget.NewLabelWithStyle(h, fyne.TextAlignCenter, fyne.TextStyle{Bold: true}))
	}
	for _, gi := range model.Grades {
		row := m.newGradeRow(gi)
		m.rows[gi.Grade] = row

		table.Add(tinted(gi.Color, widget.NewLabel(gi.Label)))
		table.Add(widget.NewLabelWithStyle(strconv.Itoa(gi.Strength), fyne.TextAlignCenter, fyne.TextStyle{}))
		table.Add(row.present)
		table.Add(row.absent)
		table.Add(row.presentPct)
		table.Add(row.absentPct)
		table.Add(row.save)
	}

	m.bulkBtn = widget.NewButton("Edit All", func() {
		m.session.BeginBulk()
		m.refresh()
	})
	m.saveAllBtn = widget.NewButton("Save All", func() {
		if err := m.session.SaveAll(); err != nil {
			dialog.ShowError(err, m.win)
		}
		m.refresh()
	})
	m.saveAllBtn.Importance = widget.HighImportance
	m.cancelBtn = widget.NewButton("Cancel", func() {
		m.session.Cancel()
		m.refresh()
	})

	actions := container.New(
		layout.NewGridLayoutWithColumns(3),
		m.bulkBtn,
		m.cancelBtn,
		m.saveAllBtn,
	)

	exports := container.New(
		layout.NewGridLayoutWithColumns(3),
		widget.NewButton("Export CSV", m.exportCSV),
		widget.NewButton("Export PDF", m.exportPDF),
		widget.NewButton("Export Spreadsheet", m.exportXLSX),
	)

	return container.NewVBox(
		title,
		place,
		widget.NewSeparator(),
		nav,
		table,
		actions,
		widget.NewSeparator(),
		exports,
	)
}

func (m *MainApp) newGradeRow(gi model.GradeInfo) *gradeRow {
	row := &gradeRow{
		present:    widget.NewEntry(),
		absent:     widget.NewEntry(),
		presentPct: widget.NewLabelWithStyle("", fyne.TextAlignCenter, fyne.TextStyle{}),
		absentPct:  widget.NewLabelWithStyle("", fyne.TextAlignCenter, fyne.TextStyle{}),
	}
	row.present.OnChanged = m.onFieldChanged(gi.Grade, session.Present)
	row.absent.OnChanged = m.onFieldChanged(gi.Grade, session.Absent)
	row.save = widget.NewButton("Save", func() {
		if err := m.session.CommitRow(gi.Grade); err != nil {
			dialog.ShowError(err, m.win)
		}
		m.refresh()
	})
	return row
}

func (m *MainApp) onFieldChanged(g model.Grade, f session.Field) func(string) {
	return func(text string) {
		if m.refreshing {
			return
		}
		if err := m.session.SetField(g, f, text); err != nil {
			dialog.ShowError(err, m.win)
		}
		m.refresh()
	}
}

// refresh redraws every row from the session. Entries of rows with pending
// edits keep the text being typed.
func (m *MainApp) refresh() {
	m.refreshing = true
	defer func() { m.refreshing = false }()

	m.dateLabel.SetText(m.session.Day().Format(layoutLong))

	state := m.session.State()
	_, rowMode := state.(session.EditingRows)
	_, bulk := state.(session.Bulk)
	_, idle := state.(session.Idle)

	for _, gi := range model.Grades {
		row := m.rows[gi.Grade]
		rec := m.session.Display(gi.Grade)

		_, pending := m.session.Pending(gi.Grade)
		if !pending {
			row.present.SetText(strconv.Itoa(rec.Present))
			row.absent.SetText(strconv.Itoa(rec.Absent))
		}
		row.presentPct.SetText(export.Percent(rec.Present, rec.Total()) + "%")
		row.absentPct.SetText(export.Percent(rec.Absent, rec.Total()) + "%")

		if rowMode && pending {
			row.save.Enable()
		} else {
			row.save.Disable()
		}
	}

	setEnabled(m.bulkBtn, idle)
	setEnabled(m.saveAllBtn, bulk)
	setEnabled(m.cancelBtn, !idle)
}

func (m *MainApp) exportCSV() {
	m.runExport("CSV", func(dir string) (string, error) {
		return export.ExportCSV(dir, m.store.Data(), m.now())
	})
}

func (m *MainApp) exportPDF() {
	m.runExport("PDF", func(dir string) (string, error) {
		h := export.Heading{Title: m.cfg.SchoolName, Subtitle: m.cfg.SchoolPlace}
		return export.ExportPDF(dir, m.store.Data(), h, m.cfg.AppID.String(), m.now())
	})
}

func (m *MainApp) exportXLSX() {
	m.runExport("spreadsheet", func(dir string) (string, error) {
		h := export.Heading{Title: m.cfg.SchoolName, Subtitle: m.cfg.SchoolPlace}
		return export.ExportXLSX(dir, m.store.Data(), h, m.cfg.AppID.String(), m.now())
	})
}

func (m *MainApp) runExport(kind string, run func(dir string) (string, error)) {
	dir := m.cfg.ExportDir
	if err := os.MkdirAll(dir, 0755); err != nil {
		m.log.Error("failed to create export folder", "dir", dir, "error", err)
		dialog.ShowError(fmt.Errorf("create export folder: %w", err), m.win)
		return
	}

	path, err := run(dir)
	if err != nil {
		m.log.Error("export failed", "kind", kind, "error", err)
		dialog.ShowError(err, m.win)
		return
	}

	m.log.Info("export written", "kind", kind, "path", path)
	dialog.ShowInformation("Exported", fmt.Sprintf("%s report saved to\n%s", kind, path), m.win)
}

func (m *MainApp) RunApp() {
	m.win.Resize(fyne.NewSize(780, 440))
	m.win.CenterOnScreen()
	m.win.ShowAndRun()

	if err := m.closeDB(); err != nil {
		m.log.Error("failed to close database", "error", err)
	}
}

func tinted(c color.NRGBA, obj fyne.CanvasObject) fyne.CanvasObject {
	return container.NewStack(canvas.NewRectangle(c), obj)
}

func setEnabled(b *widget.Button, enabled bool) {
	if enabled {
		b.Enable()
	} else {
		b.Disable()
	}
}
