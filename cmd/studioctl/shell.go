package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"

	"face-animation/pkg/studio"

	"github.com/spf13/cobra"
)

var errQuit = errors.New("quit")

// shell is an interactive dashboard session: one login, then line commands
// that map onto dashboard controls.
type shell struct {
	ctx      context.Context
	in       *bufio.Scanner
	out      io.Writer
	doc      *studio.Document
	dash     *studio.Dashboard
	cfg      studio.PageConfig
	yes      bool
	commands map[string]shellCommand
}

type shellCommand struct {
	usage string
	run   func(args []string) error
}

func (c *cli) newShellCmd() *cobra.Command {
	var (
		f   loginFlags
		yes bool
	)
	cmd := &cobra.Command{
		Use:   "shell",
		Short: "Log in and work on the dashboard of the account's role",
		Long: `shell logs in, opens the dashboard the login redirects to and reads
commands from standard input. Items are referenced by id or by #position in
the last listing (for example "delete avatars #1"). Type "help" for commands.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			backend, err := c.newBackend(f.role)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			location, err := c.login(cmd.Context(), out, backend, f)
			if err != nil {
				return err
			}

			page := pageName(location)
			if page == "guest" {
				fmt.Fprintln(out, "Guests only see the sample gallery:")
				printItems(out, studio.NewGuestPage(newDocument(out)).Samples().Items())
				return nil
			}
			cfg, ok := dashboardFor(page)
			if !ok {
				return fmt.Errorf("no dashboard for %q", location)
			}

			s := newShell(cmd.Context(), cmd.InOrStdin(), out, yes)
			s.open(backend, cfg, c)
			return s.run()
		},
	}
	f.register(cmd)
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "answer yes to every confirmation")
	return cmd
}

func dashboardFor(page string) (studio.PageConfig, bool) {
	switch page {
	case "user":
		return studio.UserPage(), true
	case "subscriber":
		return studio.SubscriberPage(), true
	case "admin":
		return studio.AdminPage(), true
	}
	return studio.PageConfig{}, false
}

func newShell(ctx context.Context, in io.Reader, out io.Writer, yes bool) *shell {
	if ctx == nil {
		ctx = context.Background()
	}
	return &shell{ctx: ctx, in: bufio.NewScanner(in), out: out, yes: yes}
}

func (s *shell) open(backend studio.Backend, cfg studio.PageConfig, c *cli) {
	s.cfg = cfg
	s.doc = newDocument(s.out)
	s.doc.Confirm = s.confirm
	s.dash = studio.NewDashboard(s.doc, backend, cfg, c.timeout(), c.log)
	s.dash.Load(s.ctx)
	s.registerCommands()

	fmt.Fprintf(s.out, "Signed in to the %s dashboard as %s <%s>\n",
		cfg.Name, s.doc.Text(cfg.UsernameText), s.doc.Text(cfg.EmailText))
}

func (s *shell) run() error {
	fmt.Fprint(s.out, "> ")
	for s.in.Scan() {
		line := strings.TrimSpace(s.in.Text())
		if line != "" {
			if err := s.exec(line); err != nil {
				if errors.Is(err, errQuit) {
					return nil
				}
				fmt.Fprintf(s.out, "error: %v\n", err)
			}
		}
		fmt.Fprint(s.out, "> ")
	}
	fmt.Fprintln(s.out)
	return s.in.Err()
}

func (s *shell) exec(line string) error {
	fields := strings.Fields(line)
	cmd, ok := s.commands[fields[0]]
	if !ok {
		return fmt.Errorf("unknown command %q, try help", fields[0])
	}
	return cmd.run(fields[1:])
}

func (s *shell) confirm(message string) bool {
	if s.yes {
		return true
	}
	fmt.Fprintf(s.out, "%s [y/N] ", message)
	if !s.in.Scan() {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(s.in.Text()))
	return answer == "y" || answer == "yes"
}

func (s *shell) registerCommands() {
	s.commands = map[string]shellCommand{
		"help":     {"help", s.help},
		"quit":     {"quit", func([]string) error { return errQuit }},
		"exit":     {"exit", func([]string) error { return errQuit }},
		"profile":  {"profile", s.profile},
		"edit":     {"edit <email|-> [full name]", s.editProfile},
		"list":     {"list <avatars|animations|expressions|users>", s.list},
		"upload":   {"upload <image file>", s.upload},
		"delete":   {"delete <list> <id|#n>", s.clickAction(studio.ActionDelete)},
		"generate": {"generate <avatar> <expression>", s.generate},
		"save":     {"save", s.save},
		"discard":  {"discard", s.discard},
		"download": {"download [animation]", s.download},
		"logout":   {"logout", s.logout},
	}
	if s.drivenGenerator() != nil {
		s.commands["drive"] = shellCommand{"drive <avatar> <video file>", s.drive}
	}
	if s.cfg.PlanSelect != "" {
		s.commands["subscribe"] = shellCommand{"subscribe <plan>", s.subscribe}
		s.commands["unsubscribe"] = shellCommand{"unsubscribe", s.unsubscribe}
	}
	if s.cfg.AddExpression != "" {
		s.commands["add-expression"] = shellCommand{"add-expression <name>", s.addExpression}
	}
	if s.cfg.CreateUser != "" {
		s.commands["create-user"] = shellCommand{"create-user <email> <full name>", s.createUser}
		s.commands["suspend"] = shellCommand{"suspend <user>", s.userAction(studio.ActionSuspend)}
		s.commands["activate"] = shellCommand{"activate <user>", s.userAction(studio.ActionActivate)}
	}
}

func (s *shell) help([]string) error {
	names := make([]string, 0, len(s.commands))
	for name := range s.commands {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(s.out, "  %s\n", s.commands[name].usage)
	}
	return nil
}

func (s *shell) profile([]string) error {
	fmt.Fprintf(s.out, "Name:  %s\nEmail: %s\n", s.doc.Text(s.cfg.UsernameText), s.doc.Text(s.cfg.EmailText))
	return nil
}

func (s *shell) editProfile(args []string) error {
	if len(args) == 0 {
		return errors.New("usage: edit <email|-> [full name]")
	}
	s.dash.EditProfile()
	if args[0] != "-" {
		s.doc.SetField(s.cfg.NewEmail, args[0])
	}
	if len(args) > 1 {
		s.doc.SetField(s.cfg.NewUsername, strings.Join(args[1:], " "))
	}
	if err := outcomeErr("update profile", s.dash.SaveProfile(s.ctx)); err != nil {
		s.dash.CancelEdit()
		return err
	}
	return s.profile(nil)
}

func (s *shell) lists() map[string]*studio.ResourceList {
	lists := map[string]*studio.ResourceList{}
	for name, l := range map[string]*studio.ResourceList{
		"avatars":     s.dash.Avatars(),
		"animations":  s.dash.Animations(),
		"expressions": s.dash.Expressions(),
		"users":       s.dash.Users(),
	} {
		if l != nil {
			lists[name] = l
		}
	}
	return lists
}

func (s *shell) listNamed(name string) (*studio.ResourceList, error) {
	l, ok := s.lists()[name]
	if !ok {
		return nil, fmt.Errorf("no %s list on the %s dashboard", name, s.cfg.Name)
	}
	return l, nil
}

func (s *shell) list(args []string) error {
	if len(args) != 1 {
		return errors.New("usage: list <avatars|animations|expressions|users>")
	}
	l, err := s.listNamed(args[0])
	if err != nil {
		return err
	}
	printItems(s.out, l.Items())
	return nil
}

// resolve maps "#n" to the id of the n-th item of l; anything else is an id.
func resolve(l *studio.ResourceList, ref string) (string, error) {
	if !strings.HasPrefix(ref, "#") {
		return ref, nil
	}
	n, err := strconv.Atoi(ref[1:])
	items := l.Items()
	if err != nil || n < 1 || n > len(items) {
		return "", fmt.Errorf("no item %s (list has %d)", ref, len(items))
	}
	return items[n-1].ID, nil
}

func readUpload(path string) (*studio.Upload, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return &studio.Upload{
		Name:        filepath.Base(path),
		ContentType: mime.TypeByExtension(strings.ToLower(filepath.Ext(path))),
		Data:        data,
	}, nil
}

func (s *shell) upload(args []string) error {
	if len(args) != 1 {
		return errors.New("usage: upload <image file>")
	}
	file, err := readUpload(args[0])
	if err != nil {
		return err
	}
	s.doc.SetFile(s.cfg.AvatarInput, file)
	return outcomeErr("upload", s.dash.UploadAvatar(s.ctx))
}

func (s *shell) clickAction(action string) func(args []string) error {
	return func(args []string) error {
		if len(args) != 2 {
			return fmt.Errorf("usage: %s <list> <id|#n>", action)
		}
		l, err := s.listNamed(args[0])
		if err != nil {
			return err
		}
		return s.click(l, args[1], action)
	}
}

func (s *shell) userAction(action string) func(args []string) error {
	return func(args []string) error {
		if len(args) != 1 {
			return fmt.Errorf("usage: %s <user>", action)
		}
		return s.click(s.dash.Users(), args[0], action)
	}
}

func (s *shell) click(l *studio.ResourceList, ref, action string) error {
	container := l.Config().Container
	if container == "" {
		return fmt.Errorf("%s are not editable here", l.Config().Kind)
	}
	id, err := resolve(l, ref)
	if err != nil {
		return err
	}
	if !s.doc.Click(s.ctx, container, id, action) {
		return fmt.Errorf("no %s %s with a %s control", l.Config().Kind, id, action)
	}
	return nil
}

// choose selects ref in a select fed by l.
func (s *shell) choose(l *studio.ResourceList, selectID, ref string) error {
	id, err := resolve(l, ref)
	if err != nil {
		return err
	}
	if !s.doc.Choose(selectID, id) {
		return fmt.Errorf("unknown %s %q", l.Config().Kind, ref)
	}
	return nil
}

func (s *shell) expressionGenerator() *studio.Generator {
	for i := range s.cfg.Generators {
		if s.cfg.Generators[i].VideoInput == "" {
			return &s.cfg.Generators[i]
		}
	}
	return nil
}

func (s *shell) drivenGenerator() *studio.Generator {
	for i := range s.cfg.Generators {
		if s.cfg.Generators[i].VideoInput != "" {
			return &s.cfg.Generators[i]
		}
	}
	return nil
}

func (s *shell) generate(args []string) error {
	g := s.expressionGenerator()
	if g == nil {
		return fmt.Errorf("the %s dashboard cannot generate animations", s.cfg.Name)
	}
	if len(args) != 2 {
		return errors.New("usage: generate <avatar> <expression>")
	}
	if err := s.choose(s.dash.Avatars(), g.AvatarSelect, args[0]); err != nil {
		return err
	}
	if err := s.choose(s.dash.Expressions(), g.ExpressionSelect, args[1]); err != nil {
		return err
	}
	if err := outcomeErr(strings.ToLower(g.Name), s.dash.Generate(s.ctx, g.Control)); err != nil {
		return err
	}
	s.showPreview()
	return nil
}

func (s *shell) drive(args []string) error {
	g := s.drivenGenerator()
	if len(args) != 2 {
		return errors.New("usage: drive <avatar> <video file>")
	}
	if err := s.choose(s.dash.Avatars(), g.AvatarSelect, args[0]); err != nil {
		return err
	}
	video, err := readUpload(args[1])
	if err != nil {
		return err
	}
	s.dash.ChooseDrivingVideo(g.Control, video)
	if err := outcomeErr(strings.ToLower(g.Name), s.dash.Generate(s.ctx, g.Control)); err != nil {
		return err
	}
	s.showPreview()
	return nil
}

func (s *shell) showPreview() {
	if item, ok := s.dash.Stage().Pending(); ok {
		fmt.Fprintf(s.out, "Preview %s (%s): %s\n", item.ID, item.Label, shorten(item.Media, 60))
	}
}

func (s *shell) save([]string) error {
	if _, ok := s.dash.Stage().Pending(); !ok {
		return errors.New("no preview to save")
	}
	return outcomeErr("save", s.dash.CommitPreview(s.ctx))
}

func (s *shell) discard([]string) error {
	if !s.dash.DiscardPreview(s.ctx) {
		return errors.New("no preview to discard")
	}
	fmt.Fprintln(s.out, "Preview discarded")
	return nil
}

func (s *shell) download(args []string) error {
	before := len(s.doc.Downloads())
	if len(args) == 0 {
		if !s.dash.DownloadPreview() {
			return errors.New("no preview to download")
		}
	} else if err := s.click(s.dash.Animations(), args[0], studio.ActionDownload); err != nil {
		return err
	}
	downloads := s.doc.Downloads()
	if len(downloads) == before {
		return errors.New("nothing downloaded")
	}
	d := downloads[len(downloads)-1]
	fmt.Fprintf(s.out, "Download %s from %s\n", d.Filename, shorten(d.URL, 60))
	return nil
}

func (s *shell) subscribe(args []string) error {
	if len(args) != 1 {
		return errors.New("usage: subscribe <plan>")
	}
	s.doc.SetOptions(s.cfg.PlanSelect, []studio.Option{{Value: args[0], Label: args[0]}})
	s.doc.Choose(s.cfg.PlanSelect, args[0])
	return outcomeErr("subscribe", s.dash.UpdateSubscription(s.ctx))
}

func (s *shell) unsubscribe([]string) error {
	outcome := s.dash.CancelSubscription(s.ctx)
	if outcome == studio.OutcomeInvalid {
		return nil
	}
	return outcomeErr("unsubscribe", outcome)
}

func (s *shell) addExpression(args []string) error {
	if len(args) == 0 {
		return errors.New("usage: add-expression <name>")
	}
	s.doc.SetField(s.cfg.ExpressionInput, strings.Join(args, " "))
	return outcomeErr("add expression", s.dash.AddExpression(s.ctx))
}

func (s *shell) createUser(args []string) error {
	if len(args) < 2 {
		return errors.New("usage: create-user <email> <full name>")
	}
	s.doc.SetField(s.cfg.NewUserEmail, args[0])
	s.doc.SetField(s.cfg.NewUserName, strings.Join(args[1:], " "))
	return outcomeErr("create user", s.dash.CreateUser(s.ctx))
}

func (s *shell) logout([]string) error {
	if err := outcomeErr("logout", s.dash.Logout(s.ctx)); err != nil {
		return err
	}
	fmt.Fprintf(s.out, "Logged out, redirect: %s\n", s.doc.Location())
	return errQuit
}

func shorten(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}

func printItems(out io.Writer, items []studio.Item) {
	if len(items) == 0 {
		fmt.Fprintln(out, "(empty)")
		return
	}
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "#\tID\tLABEL\tDETAIL\tSTATUS\tMEDIA")
	for i, item := range items {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n",
			i+1, item.ID, item.Label, item.Detail, item.Status, shorten(item.Media, 40))
	}
	w.Flush()
}
