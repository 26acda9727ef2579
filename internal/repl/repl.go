// Package repl implements SAPF's interactive read-eval-print loop:
// read a line, compile it, run it against a persistent vm.Thread, print
// the resulting stack, and log the transcript — centralizing
// lex->compile->execute the way the teacher's cmd/funxy main.go
// centralizes eval through one pipeline function (runPipeline /
// runEvalExpression).
package repl

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"

	"github.com/sapfsound/sapf/internal/compiler"
	"github.com/sapfsound/sapf/internal/vm"
)

// REPL owns the running Thread and the I/O streams it reads from and
// writes to.
type REPL struct {
	Thread *vm.Thread
	In     io.Reader
	Out    io.Writer
	Log    io.Writer // transcript sink, or nil if SAPF_LOG couldn't be opened

	PrintDepth      int
	PrintLength     int
	PrintTotalItems int

	interactive bool
}

// New returns a REPL over the given Thread, auto-detecting whether
// stdin/stdout are terminals (vs. piped/batch input) the way the
// teacher's handleEval checks stdin for a pipe.
func New(th *vm.Thread, in io.Reader, out io.Writer, logPath string) *REPL {
	r := &REPL{
		Thread:          th,
		In:              in,
		Out:             out,
		PrintDepth:      8,
		PrintLength:     64,
		PrintTotalItems: 512,
	}
	if f, ok := in.(*os.File); ok {
		if o, ok2 := out.(*os.File); ok2 {
			r.interactive = isatty.IsTerminal(f.Fd()) && isatty.IsTerminal(o.Fd())
		}
	}
	if logPath != "" {
		if f, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644); err == nil {
			r.Log = f
		}
	}
	return r
}

// Interactive reports whether the REPL should print prompts/banners.
func (r *REPL) Interactive() bool { return r.interactive }

// Banner writes the startup banner when running interactively.
func (r *REPL) Banner(version string) {
	if !r.interactive {
		return
	}
	fmt.Fprintf(r.Out, "sapf %s — sample rate %s Hz, block size %d\n",
		version, humanize.Comma(int64(r.Thread.Rate.SampleRate)), r.Thread.Rate.BlockSize)
}

// Run drives the loop until EOF on In.
func (r *REPL) Run() error {
	scanner := bufio.NewScanner(r.In)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for {
		if r.interactive {
			fmt.Fprint(r.Out, "] ")
		}
		if !scanner.Scan() {
			return scanner.Err()
		}
		line := scanner.Text()
		r.logLine("> " + line)
		r.EvalPrint(line)
	}
}

// EvalPrint compiles and runs one line, printing its result or error and
// logging both. Every REPL line, interactive or piped, goes through it;
// prelude loading goes through package pipeline instead.
func (r *REPL) EvalPrint(line string) {
	start := time.Now()
	chunk, err := compiler.Compile(line)
	if err != nil {
		r.reportError(err)
		return
	}
	if err := r.Thread.Run(chunk); err != nil {
		r.reportError(err)
		return
	}
	elapsed := time.Since(start)

	var sb fmtBuilder
	r.Thread.WriteStack(&sb, r.PrintDepth, r.PrintLength)
	out := sb.String()
	fmt.Fprintln(r.Out, out)
	r.logLine(out)
	if r.interactive {
		fmt.Fprintf(r.Out, "; %s\n", humanize.FormatFloat("#,###.######", elapsed.Seconds()*1000))
	}
}

func (r *REPL) reportError(err error) {
	fmt.Fprintln(r.Out, "error:", err)
	r.logLine("error: " + err.Error())
}

func (r *REPL) logLine(s string) {
	if r.Log == nil {
		return
	}
	fmt.Fprintln(r.Log, s)
}

// fmtBuilder is a minimal byte-slice io.Writer that captures
// WriteStack output; kept tiny and unexported.
type fmtBuilder struct{ buf []byte }

func (b *fmtBuilder) Write(p []byte) (int, error) {
	b.buf = append(b.buf, p...)
	return len(p), nil
}
func (b *fmtBuilder) String() string { return string(b.buf) }
