package main

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/esimov/doodle"
	"github.com/esimov/doodle/sketch"
	"github.com/esimov/doodle/utils"
	"golang.org/x/term"
)

// maxWorkers sets the maximum number of concurrently running workers.
const maxWorkers = 20

// sketchExtensions lists the file extensions recognized as sketches.
var sketchExtensions = []string{".yaml", ".yml"}

// ops holds the source and destination of a rendering run.
type ops struct {
	src, dst string
	workers  int
	spinner  *utils.Spinner
}

// result holds the relevant information about a rendered sketch.
type result struct {
	path string
	err  error
}

// execute renders a single sketch, or every sketch found under a directory.
func (op *ops) execute() error {
	var (
		fs  os.FileInfo
		err error
	)
	op.spinner = utils.NewSpinner(utils.StatusLine("rendering the sketch...", "", utils.DefaultMessage), time.Millisecond*80, true)

	// Capture CTRL-C signal and restore the cursor visibility back.
	signalChan := make(chan os.Signal, 1)
	signal.Notify(signalChan, os.Interrupt, syscall.SIGTERM)
	finished := make(chan struct{})
	defer func() {
		signal.Stop(signalChan)
		close(finished)
	}()
	go op.interrupt(signalChan, finished)

	// Check if the source is a pipe name or a regular file.
	if op.src == pipeName {
		fs, err = os.Stdin.Stat()
	} else {
		fs, err = os.Stat(op.src)
	}
	if err != nil {
		op.printStatus(op.src, fmt.Errorf("failed to load the source sketch: %w", err))
		return err
	}

	now := time.Now()

	switch mode := fs.Mode(); {
	case mode.IsDir():
		err = op.executeDir()
	case mode.IsRegular() || mode&os.ModeNamedPipe != 0: // check for regular files or pipe names
		if op.dst != pipeName && !utils.Contains(doodle.ValidExtensions, strings.ToLower(filepath.Ext(op.dst))) {
			err = fmt.Errorf("%v file type not supported", filepath.Ext(op.dst))
			op.printStatus(op.dst, err)
			return err
		}
		op.spinner.Start()
		err = op.render(op.src, op.dst)
		op.stopSpinner(err)
		op.printStatus(op.dst, err)
	default:
		err = fmt.Errorf("%s is neither a file nor a directory", op.src)
		op.printStatus(op.src, err)
	}
	if err == nil {
		fmt.Fprintf(os.Stderr, "\nExecution time: %s\n", utils.DecorateText(utils.FormatTime(time.Since(now)), utils.SuccessMessage))
	}
	return err
}

// interrupt restores the cursor and exits on the first signal received
// before finished is closed.
func (op *ops) interrupt(sig <-chan os.Signal, finished <-chan struct{}) {
	select {
	case <-sig:
		op.spinner.RestoreCursor()
		os.Exit(1)
	case <-finished:
	}
}

// executeDir renders the sketches found under the source directory concurrently.
// The first failure is returned after every sketch has been processed.
func (op *ops) executeDir() error {
	if op.dst == pipeName {
		err := errors.New("a destination directory is required when the source is a directory")
		op.printStatus(op.dst, err)
		return err
	}
	if err := os.MkdirAll(op.dst, 0755); err != nil {
		op.printStatus(op.dst, fmt.Errorf("unable to create the destination directory: %w", err))
		return err
	}

	// Limit the concurrently running workers to maxWorkers.
	if op.workers <= 0 || op.workers > maxWorkers {
		op.workers = runtime.NumCPU()
	}

	var (
		wg       sync.WaitGroup
		firstErr error
	)
	ch := make(chan result)
	done := make(chan struct{})
	defer close(done)

	paths, errc := walkDir(done, op.src, sketchExtensions)

	op.spinner.Start()
	wg.Add(op.workers)
	for i := 0; i < op.workers; i++ {
		go func() {
			defer wg.Done()
			op.consumer(done, paths, ch)
		}()
	}

	// Close the channel after the values are consumed.
	go func() {
		defer close(ch)
		wg.Wait()
	}()

	var results []result
	for res := range ch {
		if res.err != nil && firstErr == nil {
			firstErr = res.err
		}
		results = append(results, res)
	}
	if err := <-errc; err != nil && firstErr == nil {
		firstErr = err
	}
	op.stopSpinner(firstErr)

	for _, res := range results {
		op.printStatus(res.path, res.err)
	}
	return firstErr
}

// consumer reads the sketch paths from the paths channel, renders them into
// the destination directory and sends the results on the res channel.
func (op *ops) consumer(done <-chan struct{}, paths <-chan string, res chan<- result) {
	for src := range paths {
		dst := op.destination(src)
		err := op.render(src, dst)

		select {
		case <-done:
			return
		case res <- result{path: dst, err: err}:
		}
	}
}

// destination maps a sketch found under the source directory to its PNG
// inside the destination directory, keeping the relative layout.
func (op *ops) destination(src string) string {
	rel, err := filepath.Rel(op.src, src)
	if err != nil {
		rel = filepath.Base(src)
	}
	return filepath.Join(op.dst, strings.TrimSuffix(rel, filepath.Ext(rel))+".png")
}

// render replays the sketch in and writes the drawing to out.
func (op *ops) render(in, out string) (err error) {
	s, err := op.loadSketch(in)
	if err != nil {
		return err
	}
	ctrl, err := s.Render()
	if err != nil {
		return err
	}

	format := doodle.PNG
	if out != pipeName {
		if format, err = doodle.FormatFromPath(out); err != nil {
			return err
		}
		if err := os.MkdirAll(filepath.Dir(out), 0755); err != nil {
			return fmt.Errorf("unable to create the destination directory: %w", err)
		}
	}

	dst, err := pathToWriter(out)
	if err != nil {
		return err
	}
	defer func() {
		if f, ok := dst.(*os.File); ok && f != os.Stdout {
			if cerr := f.Close(); cerr != nil && err == nil {
				err = cerr
			}
			// remove the generated image file in case of an error
			if err != nil {
				os.Remove(f.Name())
			}
		}
	}()

	return ctrl.Encode(dst, format)
}

// loadSketch reads the sketch from a file or from stdin.
func (op *ops) loadSketch(in string) (*sketch.Sketch, error) {
	if in != pipeName {
		return sketch.Load(in)
	}
	if term.IsTerminal(int(os.Stdin.Fd())) {
		return nil, errors.New("`-` should be used with a pipe for stdin")
	}
	return sketch.Decode(os.Stdin)
}

// pathToWriter converts the destination path to a writable file.
func pathToWriter(out string) (io.Writer, error) {
	// Check if the destination is a pipe name or a regular file.
	if out == pipeName {
		if term.IsTerminal(int(os.Stdout.Fd())) {
			return nil, errors.New("`-` should be used with a pipe for stdout")
		}
		return os.Stdout, nil
	}
	dst, err := os.Create(out)
	if err != nil {
		return nil, fmt.Errorf("unable to create the destination file: %w", err)
	}
	return dst, nil
}

func (op *ops) stopSpinner(err error) {
	if err != nil {
		op.spinner.StopMsg = utils.StatusLine("rendering the sketch failed...", "✘", utils.ErrorMessage)
	} else {
		op.spinner.StopMsg = utils.StatusLine("the sketch has been rendered successfully", "✔", utils.SuccessMessage)
	}
	op.spinner.Stop()
}

// printStatus displays the relevant information about the rendering process.
func (op *ops) printStatus(fname string, err error) {
	if err != nil {
		log.Printf("%s%s",
			utils.DecorateText("\nError rendering the sketch: "+fname, utils.ErrorMessage),
			utils.DecorateText(fmt.Sprintf("\n\tReason: %v\n", err), utils.DefaultMessage),
		)
		return
	}
	if fname != pipeName {
		fmt.Fprintf(os.Stderr, "\nThe drawing has been saved as: %s %s\n",
			utils.DecorateText(fname, utils.SuccessMessage),
			utils.DefaultColor,
		)
	}
}

// walkDir starts a new goroutine to walk the specified directory tree
// in recursive manner and sends the path of each sketch file to a new channel.
// It finishes in case the done channel is getting closed.
func walkDir(
	done <-chan struct{},
	src string,
	srcExts []string,
) (<-chan string, <-chan error) {
	pathChan := make(chan string)
	errChan := make(chan error, 1)

	go func() {
		// Close the paths channel after Walk returns.
		defer close(pathChan)

		errChan <- filepath.Walk(src, func(path string, f os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if !f.Mode().IsRegular() {
				return nil
			}
			if !utils.Contains(srcExts, strings.ToLower(filepath.Ext(f.Name()))) {
				return nil
			}

			select {
			case <-done:
				return errors.New("directory walk cancelled")
			case pathChan <- path:
			}
			return nil
		})
	}()
	return pathChan, errChan
}
