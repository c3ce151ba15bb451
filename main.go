package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"runtime/debug"
	"time"

	"murmur/audio"
	"murmur/clipboard"
	"murmur/doctor"
	"murmur/gesture"
	"murmur/hotkey"
	"murmur/inject"
	"murmur/log"
	"murmur/session"
	"murmur/shutdown"
	"murmur/transcriber"
	"murmur/tray"
)

var version = "dev"

// consoleSink is the headless display: plain lines on stdout.
type consoleSink struct{ quiet bool }

func (c consoleSink) RecordingStart() {
	if !c.quiet {
		fmt.Println("recording... (tap to stop)")
	}
}

func (c consoleSink) RecordingStop()     {}
func (c consoleSink) AudioLevel(float64) {}

func (c consoleSink) Transcribing() {
	if !c.quiet {
		fmt.Println("transcribing...")
	}
}

func (c consoleSink) Transcription(text string, noSpeech bool) {
	if c.quiet {
		return
	}
	if noSpeech {
		fmt.Println("(no speech detected)")
		return
	}
	fmt.Println(text)
}

func (c consoleSink) Error(msg string) {
	fmt.Fprintln(os.Stderr, "Error: "+msg)
}

// traySink mirrors pipeline state into the menu bar item.
type traySink struct{}

func (traySink) RecordingStart()    { tray.SetRecording(true) }
func (traySink) RecordingStop()     { tray.SetRecording(false) }
func (traySink) AudioLevel(float64) {}
func (traySink) Transcribing()      {}

func (traySink) Transcription(text string, noSpeech bool) {
	if !noSpeech {
		tray.SetLastText(len(text))
	}
}

func (traySink) Error(msg string) { tray.SetStatus(msg) }

func triggerHint(combo bool) string {
	if combo {
		return "Ctrl+Shift+Space"
	}
	if runtime.GOOS == "darwin" {
		return "double-tap right Option"
	}
	return "double-tap right Alt"
}

func printPastePermissionHint() {
	switch runtime.GOOS {
	case "linux":
		fmt.Println("Fix with: sudo chmod 660 /dev/uinput && sudo chgrp input /dev/uinput")
	case "darwin":
		fmt.Println("Grant Accessibility permission in System Settings > Privacy & Security")
	}
}

func run() {
	thresholdFlag := flag.Duration("threshold", gesture.DefaultThreshold, "Double-tap window for starting a recording")
	comboFlag := flag.Bool("combo", false, "Use Ctrl+Shift+Space instead of the bare trigger key")
	autoPasteFlag := flag.Bool("autopaste", true, "Paste transcribed text at the focused window")
	setupFlag := flag.Bool("setup", false, "Select microphone device (otherwise uses system default)")
	deviceFlag := flag.String("device", "", "Use named microphone device")
	engineFlag := flag.String("engine", "whisper", "Speech engine: whisper (local CLI) or openai")
	commandFlag := flag.String("command", "", "Override the whisper CLI invocation (e.g. '/opt/whisper/main --threads 4')")
	modelFlag := flag.String("model", "", "Model path (whisper) or model name (openai)")
	langFlag := flag.String("lang", "", "Language code for transcription (e.g. en, es). Empty = auto-detect")
	logPathFlag := flag.String("logpath", "", "Log directory path (default: OS-specific location)")
	tuiFlag := flag.Bool("tui", true, "Run with terminal UI")
	quietFlag := flag.Bool("quiet", false, "Suppress console output in headless mode")
	doctorFlag := flag.Bool("doctor", false, "Run system diagnostics and exit")
	versionFlag := flag.Bool("version", false, "Print version and exit")
	crashFlag := flag.Bool("crash", false, "Trigger synthetic panic for testing crash logging")
	flag.Parse()

	logPath, err := log.ResolveDir(*logPathFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to resolve log directory: %v\n", err)
		os.Exit(1)
	}
	log.SetDir(logPath)
	if err := log.EnsureDir(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not create log directory: %v\n", err)
	}

	crashPath := filepath.Join(log.Dir(), "crash_log.txt")
	crashFile, err := os.OpenFile(crashPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err == nil {
		fmt.Fprintf(crashFile, "\n=== Session %s [pid=%d] ===\n", time.Now().Format("2006-01-02 15:04:05"), os.Getpid())
		debug.SetCrashOutput(crashFile, debug.CrashOptions{})
	}

	if *crashFlag {
		panic("TEST CRASH: synthetic panic to verify crash logging")
	}

	if *versionFlag {
		fmt.Printf("murmur %s\n", version)
		os.Exit(0)
	}

	engineCfg := transcriber.Config{
		Engine:   *engineFlag,
		Command:  *commandFlag,
		Model:    *modelFlag,
		Language: *langFlag,
	}

	if *doctorFlag {
		os.Exit(doctor.Run(engineCfg, *comboFlag))
	}

	engine, err := transcriber.New(engineCfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	adapter := transcriber.NewAdapter(engine)

	hint := triggerHint(*comboFlag)
	if err := log.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not init logging: %v\n", err)
	} else {
		log.SessionStart(engine.Name(), hint)
	}

	if *autoPasteFlag {
		if err := clipboard.Init(); err != nil {
			fmt.Printf("Warning: paste init failed: %v\n", err)
			printPastePermissionHint()
		}
	}

	ctx, err := audio.NewContext()
	if err != nil {
		log.Errorf("audio context init: %v", err)
		fmt.Fprintf(os.Stderr, "Error initializing audio: %v\n", err)
		os.Exit(1)
	}
	defer ctx.Close()

	var selectedDevice *audio.DeviceInfo
	if *deviceFlag != "" {
		if devices, err := ctx.Devices(); err == nil {
			for i := range devices {
				if devices[i].Name == *deviceFlag {
					selectedDevice = &devices[i]
					break
				}
			}
		}
		if selectedDevice == nil {
			fmt.Printf("Warning: device %q not found, using system default\n", *deviceFlag)
		}
	} else if *setupFlag {
		selectedDevice, err = audio.SelectDevice(ctx)
		if err != nil {
			log.Warnf("device selection failed: %v", err)
			fmt.Printf("Warning: device selection failed: %v, using system default\n", err)
			selectedDevice = nil
		}
	}

	capture, err := ctx.NewCapture(selectedDevice, audio.CaptureConfig{
		SampleRate: audio.SampleRate,
		Channels:   audio.Channels,
	})
	if err != nil {
		log.Errorf("capture device init: %v", err)
		fmt.Fprintf(os.Stderr, "Error initializing capture device: %v\n", err)
		os.Exit(1)
	}
	defer capture.Close()

	sinks := multiSink{traySink{}}
	if *tuiFlag {
		sinks = append(sinks, tuiSink{})
	} else {
		sinks = append(sinks, consoleSink{quiet: *quietFlag})
	}

	detector := gesture.New(*thresholdFlag)
	sess := session.New(capture)
	injector := inject.NewSystem()
	controller := NewController(detector, sess, adapter, injector, sinks, *autoPasteFlag)

	listener := hotkey.New(*comboFlag)
	if err := listener.Register(); err != nil {
		log.Errorf("trigger register: %v", err)
		fmt.Fprintf(os.Stderr, "Error registering trigger key: %v\n", err)
		if runtime.GOOS == "darwin" {
			fmt.Println("Grant Input Monitoring permission in System Settings > Privacy & Security")
		}
		os.Exit(1)
	}
	defer listener.Unregister()

	stop := shutdown.Handle(func() {
		controller.Wait()
		if n := controller.Count(); n > 0 {
			log.SessionEnd(n)
		}
		log.Close()
		listener.Unregister()
		tray.Quit()
	})

	if *tuiFlag {
		tuiMu.Lock()
		tuiProgram = NewTUIProgram(hint)
		tuiMu.Unlock()
		go func() {
			if _, err := tuiProgram.Run(); err != nil {
				log.Errorf("TUI error: %v", err)
			}
			stop()
			os.Exit(0)
		}()
	} else if !*quietFlag {
		fmt.Printf("murmur %s - %s to dictate\n", version, hint)
	}

	tray.OnRecord(controller.StartRecording, controller.StopRecording)
	tray.OnCopyLast(func() {
		if text := controller.LastText(); text != "" {
			clipboard.Write(text)
		}
	})
	tray.SetAutoPaste(*autoPasteFlag)
	tray.OnAutoPaste(controller.SetAutoPaste)
	trayQuit := tray.Init()
	go func() {
		<-trayQuit
		stop()
		os.Exit(0)
	}()

	deviceName := "system default"
	if selectedDevice != nil {
		deviceName = selectedDevice.Name
		if audio.IsBluetooth(deviceName) {
			deviceName += " (BT)"
		}
	}
	engineLabel := engine.Name()
	if *langFlag != "" {
		engineLabel += " (" + *langFlag + ")"
	}
	tuiSend(StatusLineMsg{Text: "[engine: " + engineLabel + "]"})
	tuiSend(DeviceLineMsg{Text: "mic: " + deviceName})
	tray.SetStatus("ready")

	controller.Run(listener.Taps(), make(chan struct{}))
}
