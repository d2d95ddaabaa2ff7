package converter

import (
	"context"
	"io"
	"os"
	"sync"
	"time"

	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"
)

type ProgressConfig struct {
	Enabled bool
	Writer  io.Writer
}

type ProgressManager struct {
	container *mpb.Progress
	enabled   bool
	mu        sync.Mutex
}

type ProgressBar struct {
	bar     *mpb.Bar
	enabled bool
}

func NewProgressManager(config ProgressConfig) *ProgressManager {
	if !config.Enabled {
		return &ProgressManager{enabled: false}
	}

	writer := config.Writer
	if writer == nil {
		writer = os.Stderr
	}

	container := mpb.New(
		mpb.WithOutput(writer),
		mpb.WithRefreshRate(120*time.Millisecond),
	)

	return &ProgressManager{
		container: container,
		enabled:   true,
	}
}

func (pm *ProgressManager) CreateBar(total int, description string) *ProgressBar {
	if !pm.enabled || pm.container == nil {
		return &ProgressBar{enabled: false}
	}

	pm.mu.Lock()
	defer pm.mu.Unlock()

	bar := pm.container.AddBar(int64(total),
		mpb.PrependDecorators(
			decor.Name(description+" ", decor.WC{W: len(description) + 1, C: decor.DindentRight}),
			decor.CountersNoUnit("(%d/%d)", decor.WCSyncWidth),
		),
		mpb.AppendDecorators(
			decor.NewPercentage("%.1f", decor.WCSyncSpace),
			decor.OnComplete(
				decor.EwmaETA(decor.ET_STYLE_GO, 30, decor.WCSyncWidth), " ✓ ",
			),
		),
	)

	return &ProgressBar{
		bar:     bar,
		enabled: true,
	}
}

func (pb *ProgressBar) Increment() {
	if pb.enabled && pb.bar != nil {
		pb.bar.Increment()
	}
}

func (pm *ProgressManager) Wait() {
	if pm.enabled && pm.container != nil {
		pm.container.Wait()
	}
}

func (pm *ProgressManager) Shutdown() {
	if pm.enabled && pm.container != nil {
		pm.container.Shutdown()
	}
}

func IsTTY(writer io.Writer) bool {
	if writer == nil {
		return false
	}

	if file, ok := writer.(*os.File); ok {
		stat, err := file.Stat()
		if err != nil {
			return false
		}
		return (stat.Mode() & os.ModeCharDevice) != 0
	}
	return false
}

func ShouldShowProgress(forced bool) bool {
	if forced {
		return true
	}

	return IsTTY(os.Stderr) || IsTTY(os.Stdout)
}

type ProgressAwareConverter struct {
	*Converter
	progressManager *ProgressManager
}

func NewProgressAwareConverter(converter *Converter, config ProgressConfig) *ProgressAwareConverter {
	return &ProgressAwareConverter{
		Converter:       converter,
		progressManager: NewProgressManager(config),
	}
}

func (pac *ProgressAwareConverter) Close() {
	if pac.progressManager != nil {
		pac.progressManager.Shutdown()
	}
}

func (pac *ProgressAwareConverter) createProgressBar(total int, description string) *ProgressBar {
	if pac.progressManager == nil {
		return &ProgressBar{enabled: false}
	}
	return pac.progressManager.CreateBar(total, description)
}

func (pac *ProgressAwareConverter) waitForProgress() {
	if pac.progressManager != nil {
		pac.progressManager.Wait()
	}
}

// ConvertFilesWithProgress transcribes inputs with at most parallel uploads
// in flight. Results keep the order of inputs.
func (pac *ProgressAwareConverter) ConvertFilesWithProgress(ctx context.Context, inputs []string, outDir string, parallel int) []Result {
	if len(inputs) == 0 {
		return nil
	}
	if parallel < 1 {
		parallel = 1
	}

	progressBar := pac.createProgressBar(len(inputs), "Transcribing audio")
	defer pac.waitForProgress()

	results := make([]Result, len(inputs))
	var wg sync.WaitGroup
	sem := make(chan struct{}, parallel)

	for i, j := range pac.plan(inputs, outDir) {
		wg.Add(1)
		go func(i int, j job) {
			defer wg.Done()
			defer progressBar.Increment()

			sem <- struct{}{}
			results[i] = pac.convertFile(ctx, j)
			<-sem
		}(i, j)
	}
	wg.Wait()
	return results
}
