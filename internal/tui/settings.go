package tui

import (
	"context"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/julianchen24/commitgen/internal/config"
	"github.com/julianchen24/commitgen/internal/provider"
)

// SettingsEditor lets the user walk the configuration fields, edit them, and
// save the result through the supplied callback.
type SettingsEditor struct {
	ui    *tview.Application
	pages *tview.Pages
	list  *tview.List

	cfg    *config.Config
	onSave func(*config.Config) error

	saveErr error
}

// NewSettingsEditor builds an editor over cfg. onSave is invoked when the
// user chooses "Save & Exit"; exiting without saving leaves cfg modified in
// memory but never persisted.
func NewSettingsEditor(cfg *config.Config, onSave func(*config.Config) error) *SettingsEditor {
	e := &SettingsEditor{
		ui:     tview.NewApplication(),
		pages:  tview.NewPages(),
		list:   tview.NewList(),
		cfg:    cfg,
		onSave: onSave,
	}

	e.list.ShowSecondaryText(true)
	e.list.SetBorder(true)
	e.list.SetTitle(" commitgen configuration ")
	e.rebuildList()

	e.pages.AddPage("main", e.list, true, true)
	e.ui.SetRoot(e.pages, true)
	return e
}

// Run starts the editor and blocks until the user exits or ctx is cancelled.
func (e *SettingsEditor) Run(ctx context.Context) error {
	if err := run(ctx, e.ui); err != nil {
		return err
	}
	return e.saveErr
}

// Stop halts the underlying tview application.
func (e *SettingsEditor) Stop() {
	e.ui.Stop()
}

func (e *SettingsEditor) rebuildList() {
	selected := e.list.GetCurrentItem()
	e.list.Clear()

	for _, field := range e.cfg.Fields() {
		field := field
		e.list.AddItem(field.Label, displayValue(field), 0, func() {
			e.editField(field)
		})
	}

	e.list.AddItem("Save & Exit", "Persist the configuration", 's', func() {
		if e.onSave != nil {
			e.saveErr = e.onSave(e.cfg)
		}
		e.ui.Stop()
	})
	e.list.AddItem("Exit without saving", "Discard changes", 'q', func() {
		e.ui.Stop()
	})

	if selected >= 0 && selected < e.list.GetItemCount() {
		e.list.SetCurrentItem(selected)
	}
}

// editField opens the appropriate editor: enumerated settings cycle through
// a selection list, free-form settings get a text input.
func (e *SettingsEditor) editField(field config.Field) {
	if len(field.Options) > 0 {
		e.editEnum(field)
		return
	}
	e.editText(field)
}

func (e *SettingsEditor) editEnum(field config.Field) {
	options := tview.NewList()
	options.ShowSecondaryText(false)
	options.SetBorder(true)
	options.SetTitle(" " + field.Label + " ")

	for _, option := range field.Options {
		option := option
		options.AddItem(option, "", 0, func() {
			e.applyValue(field.Key, option)
		})
	}
	options.AddItem("Cancel", "", 'q', func() {
		e.closeEditor()
	})

	e.pages.AddPage("edit", modal(options, 40, len(field.Options)+4), true, true)
}

func (e *SettingsEditor) editText(field config.Field) {
	input := tview.NewInputField()
	input.SetLabel(field.Label + ": ")
	input.SetText(field.Value)
	if field.Secret {
		input.SetMaskCharacter('*')
	}
	input.SetDoneFunc(func(key tcell.Key) {
		if key == tcell.KeyEnter {
			e.applyValue(field.Key, input.GetText())
			return
		}
		e.closeEditor()
	})

	form := tview.NewForm()
	form.AddFormItem(input)
	form.SetBorder(true)
	form.SetTitle(" " + field.Label + " ")

	e.pages.AddPage("edit", modal(form, 60, 5), true, true)
}

func (e *SettingsEditor) applyValue(key, value string) {
	if err := e.cfg.SetField(key, strings.TrimSpace(value)); err == nil && key == "provider" {
		// Switching providers resets the model to that provider's default.
		if model := provider.DefaultModelFor(e.cfg.Provider); model != "" {
			e.cfg.Model = model
		}
	}
	e.closeEditor()
}

func (e *SettingsEditor) closeEditor() {
	e.pages.RemovePage("edit")
	e.rebuildList()
	e.ui.SetFocus(e.list)
}

// modal centers a primitive at a fixed size over the main page.
func modal(p tview.Primitive, width, height int) tview.Primitive {
	return tview.NewFlex().
		AddItem(nil, 0, 1, false).
		AddItem(tview.NewFlex().SetDirection(tview.FlexRow).
			AddItem(nil, 0, 1, false).
			AddItem(p, height, 1, true).
			AddItem(nil, 0, 1, false), width, 1, true).
		AddItem(nil, 0, 1, false)
}

func displayValue(field config.Field) string {
	value := field.Value
	if field.Secret && value != "" {
		value = strings.Repeat("*", 8)
	}
	if value == "" {
		value = "(unset)"
	}
	if len(value) > 60 {
		value = value[:57] + "..."
	}
	return value
}
