package app

import (
	"context"
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/data/binding"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"yashubustudio/solarpredict/solar"
)

const (
	headingText = "☀️ Perovskite Solar Cell Performance Predictor"
	introText   = "This app predicts the four key performance metrics of a perovskite solar cell\nbased on the materials used for its main layers."
	submitText  = "Predict Performance"
	doneText    = "Prediction Complete!"
)

type metricCard struct {
	title *widget.Label
	value *widget.Label
}

type uiState struct {
	ctrl      *solar.Controller
	predictor solar.Predictor

	w       fyne.Window
	notify  func(*fyne.Notification)
	selects map[solar.Field]*widget.Select

	submitBtn *widget.Button
	results   *fyne.Container
	cards     []metricCard
	errBanner *widget.Label
	status    *widget.Label
	log       *widget.Entry
}

func buildUI(a fyne.App, w fyne.Window, ctrl *solar.Controller, logBind binding.String) *uiState {
	u := &uiState{
		ctrl:    ctrl,
		w:       w,
		notify:  a.SendNotification,
		selects: make(map[solar.Field]*widget.Select, len(solar.Fields)),
	}

	current := ctrl.Selection()
	form := &widget.Form{}
	for _, spec := range solar.Fields {
		field := spec.Field
		sel := widget.NewSelect(ctrl.Options(field), nil)
		sel.SetSelected(current.Value(field))
		sel.OnChanged = func(v string) { u.onSelect(field, v) }
		u.selects[field] = sel
		form.Append(spec.Label, sel)
	}
	u.submitBtn = widget.NewButtonWithIcon(submitText, theme.ConfirmIcon(), func() { u.onSubmit() })
	u.submitBtn.Importance = widget.HighImportance

	empty := solar.Metrics{}.Display()
	grid := container.NewGridWithColumns(len(empty))
	for _, d := range empty {
		card := metricCard{
			title: widget.NewLabel(d.Label),
			value: widget.NewLabelWithStyle("", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		}
		u.cards = append(u.cards, card)
		grid.Add(container.NewVBox(card.title, card.value))
	}
	u.results = container.NewVBox(
		widget.NewLabelWithStyle("Predicted Performance Metrics", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		grid,
	)
	u.results.Hide()

	u.errBanner = widget.NewLabel("")
	u.errBanner.Importance = widget.DangerImportance
	u.errBanner.Wrapping = fyne.TextWrapWord
	u.errBanner.Hide()

	u.status = widget.NewLabel("Ready")

	u.log = widget.NewEntryWithData(logBind)
	u.log.MultiLine = true
	u.log.Wrapping = fyne.TextWrapWord
	u.log.Disable()

	top := container.NewVBox(
		widget.NewLabelWithStyle(headingText, fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		widget.NewLabel(introText),
		widget.NewSeparator(),
		widget.NewLabelWithStyle("Select Materials", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		form,
		container.NewHBox(u.submitBtn, u.status),
		widget.NewSeparator(),
		u.errBanner,
		u.results,
		widget.NewSeparator(),
		widget.NewLabelWithStyle("Log", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
	)
	w.SetContent(container.NewBorder(top, nil, nil, nil, u.log))
	return u
}

func (u *uiState) onSelect(field solar.Field, value string) {
	if err := u.ctrl.Select(field, value); err != nil {
		u.setStatus(err.Error())
	}
}

func (u *uiState) onSubmit() {
	u.submitBtn.Disable()
	defer u.submitBtn.Enable()
	u.setStatus("Predicting...")

	out := u.ctrl.Submit(context.Background())
	if !out.OK() {
		u.results.Hide()
		u.errBanner.SetText(out.Err.Error())
		u.errBanner.Show()
		u.setStatus("Error")
		return
	}
	u.errBanner.Hide()
	for i, d := range out.Display {
		u.cards[i].title.SetText(d.Label)
		u.cards[i].value.SetText(d.Value)
	}
	u.results.Show()
	u.setStatus(doneText)
	if u.notify != nil {
		u.notify(fyne.NewNotification(doneText, fmt.Sprintf("PCE %s%%", out.Display[0].Value)))
	}
}

func (u *uiState) setStatus(text string) {
	u.status.SetText(text)
}

func (u *uiState) close() {
	if u.predictor != nil {
		_ = u.predictor.Close()
	}
}
