// Package main provides the Preserva CLI entry point.
// This file implements the root model of the interactive interface: page
// routing, the polling chains, and session synchronization.
package main

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"preserva/cmd/preserva/ui"
	"preserva/internal/api"
	"preserva/internal/config"
	"preserva/internal/docstate"
	"preserva/internal/document"
	"preserva/internal/session"
)

// page identifies the active view. Only the active page receives tick
// messages; switching pages is what tears a polling chain down.
type page int

const (
	pageLoading page = iota
	pageAuth
	pageDashboard
	pageDetail
	pageUpload
)

// Messages for tea updates.
type (
	// listTickMsg drives the dashboard refresh chain. seq ties a tick to
	// the activation that scheduled it so a stale chain dies instead of
	// doubling up after re-activation.
	listTickMsg struct{ seq int }
	// detailTickMsg drives the single-document refresh chain.
	detailTickMsg struct{ seq int }
	// sessionTickMsg drives the periodic token re-check.
	sessionTickMsg struct{}
	// tokenChangedMsg arrives from the fsnotify watcher.
	tokenChangedMsg struct{}
	// sessionCheckedMsg reports that the session state was re-derived.
	sessionCheckedMsg struct{}

	docsFetchedMsg struct{ err error }
	docFetchedMsg  struct {
		doc     document.Document
		viewURL string
		err     error
	}
	deleteDoneMsg struct {
		id  string
		err error
	}
	uploadDoneMsg struct {
		doc document.Document
		err error
	}
	authDoneMsg struct{ err error }

	metadataSavedMsg struct {
		path string
		err  error
	}

	showDetailMsg struct{ id string }
	showPageMsg   page
)

// appModel is the root model: it owns the shared components and delegates
// everything page-specific to the page models.
type appModel struct {
	cfg     config.Config
	styles  ui.Styles
	client  *api.Client
	session *session.Manager
	store   *docstate.Store
	watcher *session.TokenWatcher // nil when the platform gave no watcher
	log     *zap.Logger

	page   page
	width  int
	height int

	listSeq   int // current dashboard polling generation
	detailSeq int // current detail polling generation

	auth      authFormModel
	dashboard dashboardModel
	detail    detailModel
	upload    uploadModel
}

func newAppModel(cfg config.Config, client *api.Client, mgr *session.Manager,
	store *docstate.Store, watcher *session.TokenWatcher, log *zap.Logger) appModel {

	styles := ui.NewStyles(ui.ThemeByName(cfg.UI.Theme))
	return appModel{
		cfg:       cfg,
		styles:    styles,
		client:    client,
		session:   mgr,
		store:     store,
		watcher:   watcher,
		log:       log,
		page:      pageLoading,
		auth:      newAuthFormModel(styles, mgr),
		dashboard: newDashboardModel(styles, store, cfg.Share.Origin),
		detail:    newDetailModel(styles, client, cfg.Share.Origin),
		upload:    newUploadModel(styles, client),
	}
}

func (m appModel) Init() tea.Cmd {
	cmds := []tea.Cmd{
		refreshSession(m.session),
		m.sessionTick(),
		m.dashboard.spinner.Tick,
	}
	if m.watcher != nil {
		cmds = append(cmds, watchToken(m.watcher))
	}
	return tea.Batch(cmds...)
}

// refreshSession resolves the user from the stored token off the UI thread.
func refreshSession(mgr *session.Manager) tea.Cmd {
	return func() tea.Msg {
		mgr.Refresh(context.Background())
		return sessionCheckedMsg{}
	}
}

// checkSession runs the periodic token-presence check.
func checkSession(mgr *session.Manager) tea.Cmd {
	return func() tea.Msg {
		mgr.Check(context.Background())
		return sessionCheckedMsg{}
	}
}

// watchToken waits for one token-store change notification. Re-armed after
// every delivery.
func watchToken(w *session.TokenWatcher) tea.Cmd {
	return func() tea.Msg {
		<-w.Changes()
		return tokenChangedMsg{}
	}
}

// fetchDocs refreshes the document collection. Failures are already logged
// by the store; the dashboard keeps its stale data.
func fetchDocs(store *docstate.Store) tea.Cmd {
	return func() tea.Msg {
		err := store.FetchAll(context.Background())
		return docsFetchedMsg{err: err}
	}
}

func (m appModel) sessionTick() tea.Cmd {
	return tea.Tick(m.cfg.Polling.SessionInterval(), func(time.Time) tea.Msg {
		return sessionTickMsg{}
	})
}

func (m appModel) listTick() tea.Cmd {
	seq := m.listSeq
	return tea.Tick(m.cfg.Polling.ListInterval(), func(time.Time) tea.Msg {
		return listTickMsg{seq: seq}
	})
}

func (m appModel) detailTick() tea.Cmd {
	seq := m.detailSeq
	return tea.Tick(m.cfg.Polling.DetailInterval(), func(time.Time) tea.Msg {
		return detailTickMsg{seq: seq}
	})
}

// activateDashboard switches to the list view: immediate fetch, then the
// periodic chain.
func (m *appModel) activateDashboard() tea.Cmd {
	m.page = pageDashboard
	m.listSeq++
	return tea.Batch(fetchDocs(m.store), m.listTick())
}

// activateDetail switches to the single-document view.
func (m *appModel) activateDetail(id string) tea.Cmd {
	m.page = pageDetail
	m.detailSeq++
	m.detail.reset(id)
	return tea.Batch(m.detail.fetch(), m.detailTick())
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.dashboard.setSize(msg.Width, msg.Height)
		m.detail.setSize(msg.Width, msg.Height)
		m.upload.setSize(msg.Width, msg.Height)
		m.auth.setSize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}

	case sessionTickMsg:
		return m, tea.Batch(checkSession(m.session), m.sessionTick())

	case tokenChangedMsg:
		cmds := []tea.Cmd{checkSession(m.session)}
		if m.watcher != nil {
			cmds = append(cmds, watchToken(m.watcher))
		}
		return m, tea.Batch(cmds...)

	case sessionCheckedMsg:
		_, ok := m.session.User()
		switch {
		case !ok && (m.page == pageDashboard || m.page == pageDetail || m.page == pageUpload):
			// Out-of-band logout: back to the login entry point.
			m.page = pageAuth
			m.auth = newAuthFormModel(m.styles, m.session)
			return m, m.auth.focusCmd()
		case !ok && m.page == pageLoading:
			m.page = pageAuth
			return m, m.auth.focusCmd()
		case ok && (m.page == pageLoading || m.page == pageAuth):
			return m, m.activateDashboard()
		}
		return m, nil

	case authDoneMsg:
		if msg.err != nil {
			m.auth.fail(msg.err)
			return m, nil
		}
		return m, m.activateDashboard()

	case listTickMsg:
		// A tick from a dead chain, or from a page that is no longer
		// active, is dropped; that is the teardown.
		if m.page != pageDashboard || msg.seq != m.listSeq {
			return m, nil
		}
		return m, tea.Batch(fetchDocs(m.store), m.listTick())

	case detailTickMsg:
		if m.page != pageDetail || msg.seq != m.detailSeq {
			return m, nil
		}
		// Poll only while the pipeline can still move the status.
		if m.detail.loaded && m.detail.doc.Status.Terminal() {
			return m, nil
		}
		return m, tea.Batch(m.detail.fetch(), m.detailTick())

	case showDetailMsg:
		return m, m.activateDetail(msg.id)

	case showPageMsg:
		switch page(msg) {
		case pageDashboard:
			return m, m.activateDashboard()
		case pageUpload:
			m.page = pageUpload
			m.upload = newUploadModel(m.styles, m.client)
			m.upload.setSize(m.width, m.height)
			return m, m.upload.focusCmd()
		case pageAuth:
			_ = m.session.Logout()
			m.page = pageAuth
			m.auth = newAuthFormModel(m.styles, m.session)
			return m, m.auth.focusCmd()
		}
		return m, nil
	}

	// Everything else belongs to the active page.
	switch m.page {
	case pageAuth:
		var cmd tea.Cmd
		m.auth, cmd = m.auth.update(msg)
		return m, cmd
	case pageDashboard:
		var cmd tea.Cmd
		m.dashboard, cmd = m.dashboard.update(msg)
		return m, cmd
	case pageDetail:
		var cmd tea.Cmd
		m.detail, cmd = m.detail.update(msg)
		return m, cmd
	case pageUpload:
		var cmd tea.Cmd
		m.upload, cmd = m.upload.update(msg)
		return m, cmd
	}
	return m, nil
}

func (m appModel) View() string {
	header := m.styles.Header.Render("Preserva — Preservação Digital")
	if u, ok := m.session.User(); ok && u.Email != "" {
		header += " " + m.styles.Muted.Render(u.Email)
	}

	var body string
	switch m.page {
	case pageLoading:
		body = m.styles.Content.Render("Carregando...")
	case pageAuth:
		body = m.auth.view()
	case pageDashboard:
		body = m.dashboard.view()
	case pageDetail:
		body = m.detail.view()
	case pageUpload:
		body = m.upload.view()
	}

	return header + "\n" + body
}
