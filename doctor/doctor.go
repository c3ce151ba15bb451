// Package doctor runs interactive end-to-end checks of the dictation
// pipeline: trigger key, microphone, speech engine, and paste.
package doctor

import (
	"bufio"
	"context"
	"fmt"
	"math"
	"os"
	"strings"
	"time"

	"murmur/audio"
	"murmur/clipboard"
	"murmur/hotkey"
	"murmur/inject"
	"murmur/session"
	"murmur/transcriber"
)

// Run executes the checks in order and returns an exit code (0 = all pass).
// Later checks are skipped once one fails.
func Run(cfg transcriber.Config, combo bool) int {
	resetTerminal()
	setupInterruptHandler()

	fmt.Println("murmur doctor - interactive system diagnostics")
	fmt.Println("===============================================")

	allPass := checkTrigger(combo)

	var samples []float32
	if allPass {
		samples, allPass = checkMicrophone()
	}
	if allPass {
		allPass = checkEngine(cfg, samples)
	}
	if allPass {
		allPass = checkPaste()
	}

	fmt.Println()
	if allPass {
		fmt.Println("All checks passed!")
		return 0
	}
	fmt.Println("Some checks failed. See details above.")
	return 1
}

func checkTrigger(combo bool) bool {
	fmt.Println()
	fmt.Println("[1/4] Trigger key")

	if msg, err := hotkey.Diagnose(); err != nil {
		fmt.Printf("  FAIL: %v\n", err)
		return false
	} else {
		fmt.Printf("  %s\n", msg)
	}

	listener := hotkey.New(combo)
	if err := listener.Register(); err != nil {
		fmt.Printf("  FAIL: could not register trigger: %v\n", err)
		return false
	}
	defer listener.Unregister()

	if combo {
		fmt.Println("Press Ctrl+Shift+Space...")
	} else {
		fmt.Println("Tap the trigger key (right Option/Alt)...")
	}

	select {
	case <-listener.Taps():
		fmt.Println("  PASS: trigger detected")
		resetTerminal()
		return true
	case <-time.After(10 * time.Second):
		fmt.Println("  FAIL: timeout waiting for trigger key")
		return false
	}
}

func checkMicrophone() ([]float32, bool) {
	fmt.Println()
	fmt.Println("[2/4] Microphone")

	ctx, err := audio.NewContext()
	if err != nil {
		fmt.Printf("  FAIL: cannot connect to audio: %v\n", err)
		return nil, false
	}
	defer ctx.Close()

	devices, err := ctx.Devices()
	if err != nil {
		fmt.Printf("  FAIL: cannot list devices: %v\n", err)
		return nil, false
	}
	if len(devices) == 0 {
		fmt.Println("  FAIL: no capture devices found")
		return nil, false
	}

	var device *audio.DeviceInfo
	if len(devices) == 1 {
		device = &devices[0]
		fmt.Printf("Using device: %s\n", device.Name)
	} else {
		reader := bufio.NewReader(os.Stdin)
		fmt.Println("Select input device:")
		for i, d := range devices {
			fmt.Printf("  %d. %s\n", i+1, d.Name)
		}
		fmt.Printf("Choice [1-%d]: ", len(devices))
		line, _ := reader.ReadString('\n')
		idx := 1
		fmt.Sscanf(strings.TrimSpace(line), "%d", &idx)
		if idx < 1 || idx > len(devices) {
			fmt.Println("  FAIL: invalid choice")
			return nil, false
		}
		device = &devices[idx-1]
		fmt.Printf("Selected: %s\n", device.Name)
	}

	capture, err := ctx.NewCapture(device, audio.CaptureConfig{
		SampleRate: audio.SampleRate,
		Channels:   audio.Channels,
	})
	if err != nil {
		fmt.Printf("  FAIL: cannot open device: %v\n", err)
		return nil, false
	}
	defer capture.Close()

	sess := session.New(capture)

	fmt.Print("Speak for 3 seconds")
	if err := sess.Start(); err != nil {
		fmt.Println()
		fmt.Printf("  FAIL: recording error: %v\n", err)
		return nil, false
	}
	for range 6 {
		time.Sleep(500 * time.Millisecond)
		fmt.Print(".")
	}
	samples := sess.Stop()
	fmt.Println(" done")

	if len(samples) == 0 {
		fmt.Println("  FAIL: no audio captured")
		return nil, false
	}

	var peak float64
	for _, s := range samples {
		peak = math.Max(peak, math.Abs(float64(s)))
	}
	seconds := float64(len(samples)) / float64(audio.SampleRate)
	fmt.Printf("  PASS: captured %.1fs, peak level %.2f\n", seconds, peak)
	if peak < 0.01 {
		fmt.Println("  Warning: level near zero, check OS input permissions")
	}
	return samples, true
}

func checkEngine(cfg transcriber.Config, samples []float32) bool {
	fmt.Println()
	fmt.Println("[3/4] Speech engine")

	if cfg.Engine == "" || cfg.Engine == "whisper" {
		if cfg.Command == "" {
			if bin := transcriber.FindWhisperBinary(); bin != "" {
				fmt.Printf("  whisper binary: %s\n", bin)
			}
		}
	}

	engine, err := transcriber.New(cfg)
	if err != nil {
		fmt.Printf("  FAIL: %v\n", err)
		return false
	}

	fmt.Printf("  Transcribing the recorded audio with %s...\n", engine.Name())
	adapter := transcriber.NewAdapter(engine)
	text, err := adapter.Transcribe(context.Background(), samples)
	if err != nil {
		fmt.Printf("  FAIL: %v\n", err)
		return false
	}
	if text == "" {
		text = "(no speech detected)"
	}
	fmt.Printf("\n  Transcribed text: %s\n\n", text)

	reader := bufio.NewReader(os.Stdin)
	fmt.Print("Is this correct? [y/n]: ")
	confirm, _ := reader.ReadString('\n')
	confirm = strings.TrimSpace(strings.ToLower(confirm))
	if confirm == "y" || confirm == "yes" {
		fmt.Println("  PASS: transcription verified")
		return true
	}
	fmt.Println("  FAIL: transcription not confirmed")
	return false
}

func checkPaste() bool {
	fmt.Println()
	fmt.Println("[4/4] Clipboard and paste")

	if err := clipboard.Init(); err != nil {
		fmt.Printf("  FAIL: paste init: %v\n", err)
		printPasteHint()
		return false
	}
	if msg, err := clipboard.Verify(); err != nil {
		fmt.Printf("  FAIL: %v\n", err)
		return false
	} else {
		fmt.Printf("  %s\n", msg)
	}

	sentinel := "murmur-preserve-check"
	if err := clipboard.Write(sentinel); err != nil {
		fmt.Printf("  FAIL: clipboard write failed: %v\n", err)
		return false
	}

	fmt.Println("Focus a text editor window...")
	for i := 5; i > 0; i-- {
		fmt.Printf("  %d...\n", i)
		time.Sleep(1 * time.Second)
	}

	injector := inject.NewSystem()
	if err := injector.Inject("murmur-doctor-test"); err != nil {
		fmt.Printf("  FAIL: %v\n", err)
		return false
	}

	// Give the restore timer room to fire.
	time.Sleep(inject.DefaultRestoreAfter + 500*time.Millisecond)

	restored, err := clipboard.Read()
	if err != nil {
		fmt.Printf("  FAIL: cannot read clipboard after restore: %v\n", err)
		return false
	}
	if restored != sentinel {
		fmt.Printf("  FAIL: clipboard not restored (got %q, want %q)\n", restored, sentinel)
		return false
	}

	resetTerminal()
	reader := bufio.NewReader(os.Stdin)
	fmt.Println()
	fmt.Print("Did the text \"murmur-doctor-test\" appear? [y/n]: ")
	confirm, _ := reader.ReadString('\n')
	confirm = strings.TrimSpace(strings.ToLower(confirm))
	if confirm != "y" && confirm != "yes" {
		fmt.Println("  FAIL: paste not confirmed")
		return false
	}
	fmt.Println("  PASS: paste and clipboard restore verified")
	return true
}
