package commands

import (
	"fmt"
	"io"
	"io/fs"

	"github.com/ex11-team/simplesh/core/vos"
	"github.com/fatih/color"
	getopt "github.com/pborman/getopt/v2"
)

// copyBufferSize is the chunk size used to stream file contents.
const copyBufferSize = 1024

// BuiltinFunc runs a builtin. args[0] is the builtin name.
type BuiltinFunc func(virtOS vos.VOS, args []string) int

// Builtin is a command the interpreter runs itself instead of launching a
// program.
type Builtin struct {
	// Name is matched exactly against the first token.
	Name string
	// Args is the number of operands required after the name.
	Args int
	// Usage holds a one line usage string.
	Usage string
	// Missing is printed after the name when operands are missing.
	Missing string

	Main BuiltinFunc
}

// Run validates the operand count and calls the builtin.
func (b *Builtin) Run(virtOS vos.VOS, args []string) int {
	if len(args)-1 < b.Args {
		fmt.Fprintf(virtOS.Stderr(), "%s: %s\n", b.Name, b.Missing)
		return 1
	}

	return b.Main(virtOS, args)
}

// Registry holds builtins in dispatch priority order.
type Registry struct {
	ordered []*Builtin
	byName  map[string]*Builtin
}

// NewRegistry creates a registry, earlier builtins take priority. It panics
// on duplicate names.
func NewRegistry(builtins ...*Builtin) *Registry {
	r := &Registry{byName: make(map[string]*Builtin)}
	for _, b := range builtins {
		r.mustAdd(b)
	}
	return r
}

func (r *Registry) mustAdd(b *Builtin) {
	if _, ok := r.byName[b.Name]; ok {
		panic(fmt.Sprintf("duplicate builtin %q", b.Name))
	}
	r.byName[b.Name] = b
	r.ordered = append(r.ordered, b)
}

// Lookup finds a builtin by exact name.
func (r *Registry) Lookup(name string) (*Builtin, bool) {
	b, ok := r.byName[name]
	return b, ok
}

// List returns the builtins in priority order.
func (r *Registry) List() []*Builtin {
	return append([]*Builtin(nil), r.ordered...)
}

// Run dispatches argv to a builtin. ok is false if argv[0] isn't one.
func (r *Registry) Run(virtOS vos.VOS, argv []string) (code int, ok bool) {
	if len(argv) == 0 {
		return 0, false
	}
	b, ok := r.Lookup(argv[0])
	if !ok {
		return 0, false
	}
	return b.Run(virtOS, argv), true
}

// AllBuiltins holds the file and directory builtins in dispatch order.
var AllBuiltins = NewRegistry(
	&Builtin{Name: "ls", Args: 0, Usage: "ls [DIRECTORY]", Main: Ls},
	&Builtin{Name: "pwd", Args: 0, Usage: "pwd", Main: Pwd},
	&Builtin{Name: "cd", Args: 1, Usage: "cd PATH", Missing: "argument required", Main: Cd},
	&Builtin{Name: "mkdir", Args: 1, Usage: "mkdir PATH", Missing: "directory name required", Main: Mkdir},
	&Builtin{Name: "rmdir", Args: 1, Usage: "rmdir PATH", Missing: "directory name required", Main: Rmdir},
	&Builtin{Name: "ln", Args: 2, Usage: "ln TARGET LINKPATH", Missing: "target and link path required", Main: Ln},
	&Builtin{Name: "cp", Args: 2, Usage: "cp SOURCE DEST", Missing: "source and destination required", Main: Cp},
	&Builtin{Name: "rm", Args: 1, Usage: "rm FILE", Missing: "file path required", Main: Rm},
	&Builtin{Name: "mv", Args: 2, Usage: "mv OLD NEW", Missing: "old and new path required", Main: Mv},
	&Builtin{Name: "cat", Args: 1, Usage: "cat FILE", Missing: "file name required", Main: Cat},
)

// reportErr prints a failed operation as "name: err" and returns the exit
// code.
func reportErr(virtOS vos.VOS, name string, err error) int {
	fmt.Fprintf(virtOS.Stderr(), "%s: %v\n", name, err)
	return 1
}

// copyBuffered streams src into dst one chunk at a time. The wrappers hide
// ReadFrom/WriteTo so io.CopyBuffer uses the chunk buffer.
func copyBuffered(dst io.Writer, src io.Reader) (int64, error) {
	buf := make([]byte, copyBufferSize)
	return io.CopyBuffer(struct{ io.Writer }{dst}, struct{ io.Reader }{src}, buf)
}

type SimpleCommand struct {
	// Use holds a one line usage string
	Use string
	// Short holds a sone line description of the command.
	Short string
	// ShowHelp sets whether help is displayed or not.
	// If this is non-nil when Run() is called, then the default help flag isn't
	// added.
	ShowHelp *bool

	flags *getopt.Set
}

// Flags gets the command's flag set.
func (s *SimpleCommand) Flags() *getopt.Set {
	if s.flags == nil {
		s.flags = getopt.New()
	}

	return s.flags
}

// PrintHelp writes help for the command to the given writer.
func (s *SimpleCommand) PrintHelp(w io.Writer) {
	fmt.Fprint(w, "usage: ")
	fmt.Fprintln(w, s.Use)
	fmt.Fprintln(w, s.Short)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	s.Flags().PrintOptions(w)
}

// Run the command, if flag parsing was succcessful call the callback.
func (s *SimpleCommand) Run(virtOS vos.VOS, args []string, callback func() int) int {
	opts := s.Flags()

	// Add help flag if not overridden.
	if s.ShowHelp == nil {
		s.ShowHelp = opts.BoolLong("help", 'h', "show this help and exit")
	}

	if err := opts.Getopt(args, nil); err != nil {
		fmt.Fprintf(virtOS.Stderr(), "error: %s\n\n", err)

		s.PrintHelp(virtOS.Stdout())
		return 1
	}

	if *s.ShowHelp {
		s.PrintHelp(virtOS.Stdout())
		return 0
	}

	return callback()
}

var (
	ColorBoldBlue  = color.New(color.FgBlue, color.Bold)
	ColorBoldGreen = color.New(color.FgGreen, color.Bold)
	ColorBoldCyan  = color.New(color.FgCyan, color.Bold)
	ColorPlain     = color.New(color.Reset)
)

// Dircolor picks the ls color for a file. Colors are only emitted when
// color.NoColor is false.
func Dircolor(fileInfo fs.FileInfo) *color.Color {
	switch mode := fileInfo.Mode(); {
	case mode.IsDir():
		return ColorBoldBlue
	case mode&fs.ModeSymlink != 0:
		return ColorBoldCyan
	case mode.IsRegular() && mode.Perm()&0111 != 0:
		return ColorBoldGreen
	default:
		return ColorPlain
	}
}
