package cli

import (
	"bufio"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

type stubExec struct {
	loggedIn bool
	calls    []string
	errs     map[string]error
}

func (s *stubExec) record(name string) error {
	s.calls = append(s.calls, name)
	return s.errs[name]
}

func (s *stubExec) isLoggedIn() bool                    { return s.loggedIn }
func (s *stubExec) Register(context.Context) error      { return s.record("register") }
func (s *stubExec) Login(context.Context) error         { return s.record("login") }
func (s *stubExec) Logout(context.Context) error        { return s.record("logout") }
func (s *stubExec) Langs(context.Context) error         { return s.record("langs") }
func (s *stubExec) MyLangs(context.Context) error       { return s.record("mylangs") }
func (s *stubExec) NewLang(context.Context) error       { return s.record("newlang") }
func (s *stubExec) Use(context.Context) error           { return s.record("use") }
func (s *stubExec) Words(context.Context) error         { return s.record("words") }
func (s *stubExec) AddWord(context.Context) error       { return s.record("addword") }
func (s *stubExec) Show(context.Context) error          { return s.record("show") }
func (s *stubExec) DeleteWord(context.Context) error    { return s.record("delword") }
func (s *stubExec) AddSection(context.Context) error    { return s.record("addsection") }
func (s *stubExec) EditSection(context.Context) error   { return s.record("editsection") }
func (s *stubExec) DeleteSection(context.Context) error { return s.record("delsection") }
func (s *stubExec) Reorder(context.Context) error       { return s.record("reorder") }
func (s *stubExec) AddCategory(context.Context) error   { return s.record("addcategory") }

func runScript(t *testing.T, s *stubExec, script string) []string {
	t.Helper()

	var output []string
	orig := printlnFn
	printlnFn = func(a ...any) (int, error) {
		parts := make([]string, 0, len(a))
		for _, v := range a {
			if str, ok := v.(string); ok {
				parts = append(parts, str)
			}
		}
		output = append(output, strings.Join(parts, " "))
		return 0, nil
	}
	defer func() { printlnFn = orig }()

	scanner := bufio.NewScanner(strings.NewReader(script))
	runREPL(context.Background(), s, func() string { return "test" }, scanner)
	return output
}

func TestREPL_DispatchesCommands(t *testing.T) {
	s := &stubExec{}
	runScript(t, s, "login\nuse\nwords\naddsection\nreorder\nexit\n")

	require.Equal(t, []string{"login", "use", "words", "addsection", "reorder"}, s.calls)
}

func TestREPL_UnknownCommandReported(t *testing.T) {
	s := &stubExec{}
	out := runScript(t, s, "frobnicate\nexit\n")

	require.Empty(t, s.calls)
	joined := strings.Join(out, "\n")
	require.Contains(t, joined, "Unknown command:")
}

func TestREPL_ExitsOnEOF(t *testing.T) {
	s := &stubExec{}
	runScript(t, s, "langs\n")

	require.Equal(t, []string{"langs"}, s.calls)
}

func TestREPL_ShortAliasForWords(t *testing.T) {
	s := &stubExec{}
	runScript(t, s, "w\nexit\n")

	require.Equal(t, []string{"words"}, s.calls)
}

func TestREPL_CommandErrorShownAndLoopContinues(t *testing.T) {
	s := &stubExec{errs: map[string]error{"login": context.DeadlineExceeded}}
	out := runScript(t, s, "login\nlangs\nexit\n")

	require.Equal(t, []string{"login", "langs"}, s.calls)
	joined := strings.Join(out, "\n")
	require.Contains(t, joined, "Error:")
}

func TestREPL_HelpDependsOnLoginState(t *testing.T) {
	s := &stubExec{}
	out := runScript(t, s, "help\nexit\n")
	require.Contains(t, strings.Join(out, "\n"), "register, login")

	s.loggedIn = true
	out = runScript(t, s, "help\nexit\n")
	require.Contains(t, strings.Join(out, "\n"), "addsection")
}
