package app

import (
	"fmt"
	"io"
	"log"
	"os"

	"fyne.io/fyne/v2"
	fyneapp "fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/data/binding"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"yashubustudio/solarpredict/solar"
)

const (
	fyneAppID   = "studio.yashubu.solarpredict"
	windowTitle = "Solar Cell Performance Predictor"
	logLimit    = 300

	// configPath is resolved by solar.LoadConfig to ./config.json.
	configPath = ""
)

// Run loads the model and option catalog, then starts the desktop UI.
// A load failure shows only the error message and is returned once the window closes.
func Run() error {
	a := fyneapp.NewWithID(fyneAppID)
	logBind := binding.NewString()
	logger := log.New(io.MultiWriter(os.Stdout, newLogCapture(logBind, logLimit)), "", log.LstdFlags)

	cfg, err := solar.LoadConfig(configPath)
	if err != nil {
		w := a.NewWindow(windowTitle)
		showFatalError(w, fmt.Errorf("load config: %w", err))
		w.ShowAndRun()
		return err
	}

	w, u, err := newWindow(a, cfg, logBind, logger)
	if err != nil {
		w.ShowAndRun()
		return err
	}
	defer u.close()
	w.SetCloseIntercept(func() {
		saveWindowSize(configPath, cfg, w.Canvas().Size(), logger)
		w.Close()
	})
	w.ShowAndRun()
	return nil
}

// saveWindowSize records size in config.json when it differs from cfg.
// It reports whether the file was written.
func saveWindowSize(path string, cfg solar.Config, size fyne.Size, logger *log.Logger) bool {
	if size.Width <= 0 || size.Height <= 0 {
		return false
	}
	if cfg.Window.Width == size.Width && cfg.Window.Height == size.Height {
		return false
	}
	cfg.Window = solar.WindowConfig{Width: size.Width, Height: size.Height}
	if err := solar.SaveConfig(path, cfg); err != nil {
		logger.Printf("[WARN] save config: %v", err)
		return false
	}
	return true
}

// newWindow builds the main window. When either asset fails to load the
// window holds only the error and the returned uiState is nil.
func newWindow(a fyne.App, cfg solar.Config, logBind binding.String, logger *log.Logger) (fyne.Window, *uiState, error) {
	w := a.NewWindow(windowTitle)
	w.Resize(fyne.NewSize(cfg.Window.Width, cfg.Window.Height))

	predictor, catalog, err := loadAssets(cfg, logger)
	if err != nil {
		logger.Printf("[ERROR] %v", err)
		showFatalError(w, err)
		return w, nil, err
	}
	ctrl, err := solar.NewController(predictor, catalog, logger)
	if err != nil {
		_ = predictor.Close()
		logger.Printf("[ERROR] %v", err)
		showFatalError(w, err)
		return w, nil, err
	}
	u := buildUI(a, w, ctrl, logBind)
	u.predictor = predictor
	return w, u, nil
}

func loadAssets(cfg solar.Config, logger *log.Logger) (solar.Predictor, solar.Catalog, error) {
	predictor, err := solar.LoadPredictor(cfg.ModelPath, solar.LoadOptions{OrtLibrary: cfg.OrtLibrary, Logger: logger})
	if err != nil {
		return nil, solar.Catalog{}, err
	}
	catalog, err := solar.LoadCatalog(cfg.DatasetPath, cfg.Columns, logger)
	if err != nil {
		_ = predictor.Close()
		return nil, solar.Catalog{}, err
	}
	return predictor, catalog, nil
}

func showFatalError(w fyne.Window, err error) {
	content := widget.NewLabel(err.Error())
	content.Importance = widget.DangerImportance
	content.Wrapping = fyne.TextWrapWord
	w.SetContent(content)
	dialog.ShowError(err, w)
}
