package main

import (
	"context"
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"preserva/cmd/preserva/ui"
	"preserva/internal/api"
	"preserva/internal/session"
)

type authMode int

const (
	modeLogin authMode = iota
	modeRegister
)

type authField int

const (
	authFieldName authField = iota
	authFieldEmail
	authFieldPassword
)

// authFormModel is the login/register entry point. Validation mirrors the
// portal's form: required fields, e-mail shape, minimum password length —
// nothing reaches the backend until the form is clean.
type authFormModel struct {
	styles  ui.Styles
	session *session.Manager

	mode     authMode
	name     textinput.Model
	email    textinput.Model
	password textinput.Model
	focus    authField

	fieldErrs session.FieldErrors
	submitErr string
	sending   bool

	width  int
	height int
}

func newAuthFormModel(styles ui.Styles, mgr *session.Manager) authFormModel {
	name := textinput.New()
	name.Placeholder = "Seu nome completo"
	name.Prompt = "> "

	email := textinput.New()
	email.Placeholder = "seu@email.com"
	email.Prompt = "> "

	password := textinput.New()
	password.Placeholder = "••••••"
	password.Prompt = "> "
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '•'

	return authFormModel{
		styles:    styles,
		session:   mgr,
		mode:      modeLogin,
		name:      name,
		email:     email,
		password:  password,
		focus:     authFieldEmail,
		fieldErrs: session.FieldErrors{},
	}
}

func (m *authFormModel) setSize(w, h int) {
	m.width = w
	m.height = h
}

func (m authFormModel) focusCmd() tea.Cmd {
	switch m.focus {
	case authFieldName:
		return m.name.Focus()
	case authFieldEmail:
		return m.email.Focus()
	default:
		return m.password.Focus()
	}
}

// fail records a backend rejection for display.
func (m *authFormModel) fail(err error) {
	m.sending = false
	var apiErr *api.Error
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		m.submitErr = apiErr.Message
		return
	}
	m.submitErr = "Erro de autenticação. Tente novamente."
}

func (m authFormModel) submit() tea.Cmd {
	mgr := m.session
	mode := m.mode
	name, email, password := m.name.Value(), m.email.Value(), m.password.Value()
	return func() tea.Msg {
		ctx := context.Background()
		var err error
		if mode == modeRegister {
			err = mgr.Register(ctx, name, email, password)
		} else {
			err = mgr.Login(ctx, email, password)
		}
		return authDoneMsg{err: err}
	}
}

func (m authFormModel) update(msg tea.Msg) (authFormModel, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok || m.sending {
		return m, nil
	}

	switch keyMsg.Type {
	case tea.KeyTab, tea.KeyDown:
		return m.moveFocus(1)
	case tea.KeyShiftTab, tea.KeyUp:
		return m.moveFocus(-1)
	case tea.KeyCtrlR:
		// Toggle between login and registration.
		m.blur()
		if m.mode == modeLogin {
			m.mode = modeRegister
			m.focus = authFieldName
		} else {
			m.mode = modeLogin
			m.focus = authFieldEmail
		}
		m.fieldErrs = session.FieldErrors{}
		m.submitErr = ""
		return m, m.focusCmd()
	case tea.KeyEnter:
		if m.focus != authFieldPassword {
			return m.moveFocus(1)
		}
		if m.mode == modeRegister {
			m.fieldErrs = session.ValidateRegister(m.name.Value(), m.email.Value(), m.password.Value())
		} else {
			m.fieldErrs = session.ValidateLogin(m.email.Value(), m.password.Value())
		}
		if !m.fieldErrs.Valid() {
			return m, nil
		}
		m.sending = true
		m.submitErr = ""
		return m, m.submit()
	}

	var cmd tea.Cmd
	switch m.focus {
	case authFieldName:
		m.name, cmd = m.name.Update(msg)
	case authFieldEmail:
		m.email, cmd = m.email.Update(msg)
	case authFieldPassword:
		m.password, cmd = m.password.Update(msg)
	}
	return m, cmd
}

func (m authFormModel) moveFocus(delta int) (authFormModel, tea.Cmd) {
	fields := []authField{authFieldEmail, authFieldPassword}
	if m.mode == modeRegister {
		fields = []authField{authFieldName, authFieldEmail, authFieldPassword}
	}
	idx := 0
	for i, f := range fields {
		if f == m.focus {
			idx = i
		}
	}
	m.blur()
	m.focus = fields[(idx+delta+len(fields))%len(fields)]
	return m, m.focusCmd()
}

func (m *authFormModel) blur() {
	m.name.Blur()
	m.email.Blur()
	m.password.Blur()
}

func (m authFormModel) view() string {
	var b strings.Builder

	title := "Entrar na sua conta"
	subtitle := "Digite suas credenciais abaixo para acessar sua conta"
	if m.mode == modeRegister {
		title = "Criar uma nova conta"
		subtitle = "Preencha os campos abaixo para criar sua conta"
	}
	b.WriteString(m.styles.Content.Render(
		m.styles.Title.Render(title) + "\n" + m.styles.Subtitle.Render(subtitle)))
	b.WriteString("\n")

	if m.mode == modeRegister {
		b.WriteString(m.renderField("Nome completo", m.name.View(), m.fieldErrs["name"]))
	}
	b.WriteString(m.renderField("E-mail", m.email.View(), m.fieldErrs["email"]))
	b.WriteString(m.renderField("Senha", m.password.View(), m.fieldErrs["password"]))

	if m.sending {
		b.WriteString(m.styles.Content.Render(m.styles.Info.Render("Autenticando...")))
		b.WriteString("\n")
	}
	if m.submitErr != "" {
		b.WriteString(m.styles.Content.Render(m.styles.Error.Render(m.submitErr)))
		b.WriteString("\n")
	}

	hint := "enter entrar · ctrl+r criar conta · ctrl+c sair"
	if m.mode == modeRegister {
		hint = "enter criar conta · ctrl+r já tenho conta · ctrl+c sair"
	}
	b.WriteString(m.styles.Help.Render(hint))
	return b.String()
}

func (m authFormModel) renderField(label, input, errMsg string) string {
	s := m.styles.Content.Render(m.styles.FieldLabel.Render(label) + "\n" + input)
	if errMsg != "" {
		s += "\n" + m.styles.Content.Render(m.styles.FieldError.Render(errMsg))
	}
	return s + "\n"
}
