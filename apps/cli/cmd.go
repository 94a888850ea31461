package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/labstack/gommon/color"
	"github.com/pkg/errors"
	"go.uber.org/dig"
	"golang.org/x/term"

	"github.com/trezcool/attendance/core"
	"github.com/trezcool/attendance/core/attendance"
	"github.com/trezcool/attendance/core/school"
	"github.com/trezcool/attendance/core/settings"
	"github.com/trezcool/attendance/core/student"
	"github.com/trezcool/attendance/core/user"
	backupsvc "github.com/trezcool/attendance/services/backup"
	exportsvc "github.com/trezcool/attendance/services/export"
	logsvc "github.com/trezcool/attendance/services/logger"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp        = errors.New("help provided")
	errNotLoggedIn = errors.New("please log in first: user login -email EMAIL")
)

type commandLine struct {
	conf     *core.Config
	db       *sqlx.DB
	logger   core.Logger
	stdSvc   student.Service
	attSvc   attendance.Service
	schSvc   school.Service
	usrSvc   user.Service
	settings settings.Store
	backup   *backupsvc.Service
	exporter *exportsvc.Exporter
	runner   *exportsvc.Runner
	out      io.Writer
}

type commandLineParams struct {
	dig.In

	Conf     *core.Config
	DB       *sqlx.DB
	Logger   *logsvc.RollbarLogger
	Students student.Service
	Attend   attendance.Service
	School   school.Service
	User     user.Service
	Settings settings.Store
	Backup   *backupsvc.Service
	Exporter *exportsvc.Exporter
	Runner   *exportsvc.Runner
}

func newCommandLine(p commandLineParams) *commandLine {
	return &commandLine{
		conf:     p.Conf,
		db:       p.DB,
		logger:   p.Logger,
		stdSvc:   p.Students,
		attSvc:   p.Attend,
		schSvc:   p.School,
		usrSvc:   p.User,
		settings: p.Settings,
		backup:   p.Backup,
		exporter: p.Exporter,
		runner:   p.Runner,
		out:      os.Stdout,
	}
}

// close waits for running exports, then releases the database and flushes the logger.
func (cli *commandLine) close() {
	cli.runner.Wait()
	_ = cli.db.Close()
	if l, ok := cli.logger.(*logsvc.RollbarLogger); ok {
		l.Close()
	}
}

func (cli *commandLine) printUsage() {
	cli.println("Usage:")
	cli.println("  migrate COMMAND [ARGS]             - run a database migration command (up, down, status, ...)")
	cli.println("  student add|edit|list|show|delete|export")
	cli.println("  attendance take|show|summary|dashboard|report|detail|export")
	cli.println("  school show|set|export")
	cli.println("  user signup|login|logout|passwd|recover|show|edit|export")
	cli.println("  settings show|theme|language")
	cli.println("  backup                             - copy the database to the Downloads folder")
	cli.println("  restore                            - replace the database with the backup")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}
	ctx := context.Background()
	cmd, rest := args[1], args[2:]

	switch cmd {
	case "migrate":
		if len(rest) == 0 {
			cli.printUsage()
			return errHelp
		}
		return cli.migrate(rest)
	case "user":
		return cli.userCmd(ctx, rest)
	case "settings":
		return cli.settingsCmd(rest)
	}

	if !cli.usrSvc.IsLoggedIn() {
		return errNotLoggedIn
	}
	switch cmd {
	case "student":
		return cli.studentCmd(ctx, rest)
	case "attendance":
		return cli.attendanceCmd(ctx, rest)
	case "school":
		return cli.schoolCmd(ctx, rest)
	case "backup":
		msg, err := cli.backup.Backup(ctx)
		if err != nil {
			return err
		}
		cli.success(msg)
		return nil
	case "restore":
		msg, err := cli.backup.Restore(ctx)
		if err != nil {
			return err
		}
		cli.success(msg)
		return nil
	default:
		cli.printUsage()
		return errHelp
	}
}

// output helpers

func (cli *commandLine) println(a ...interface{}) {
	_, _ = fmt.Fprintln(cli.out, a...)
}

func (cli *commandLine) printf(format string, a ...interface{}) {
	_, _ = fmt.Fprintf(cli.out, format, a...)
}

func (cli *commandLine) success(msg string) {
	cli.println(color.Green(msg))
}

func (cli *commandLine) printError(err error) {
	if fields := core.FieldErrors(err); len(fields) > 0 {
		names := make([]string, 0, len(fields))
		for name := range fields {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			cli.printf("%s: %s\n", color.Red(name), fields[name])
		}
		return
	}
	cli.println(color.Red("error: " + err.Error()))
}

// field prints an aligned "label: value" line.
func (cli *commandLine) field(label, value string) {
	cli.printf("%-18s %s\n", color.Bold(label+":"), value)
}

// printRow writes one tab separated line of a tabwriter table.
func printRow(w io.Writer, cols ...string) {
	_, _ = fmt.Fprintln(w, strings.Join(cols, "\t"))
}

// flag helpers

func (cli *commandLine) flagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(cli.out)
	return fs
}

func parseFlags(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return errHelp
		}
		return err
	}
	return nil
}

// dateValue is a flag.Value reading "dd-MM-yyyy" dates.
type dateValue struct {
	date *core.Date
}

func newDateValue(date *core.Date) dateValue {
	*date = core.Today()
	return dateValue{date: date}
}

func (v dateValue) String() string {
	if v.date == nil {
		return ""
	}
	return v.date.String()
}

func (v dateValue) Set(s string) error {
	d, err := core.ParseDate(s)
	if err != nil {
		return err
	}
	*v.date = d
	return nil
}

// monthFlags registers -month and -year, both defaulting to the current month.
func monthFlags(fs *flag.FlagSet) (month, year *int) {
	today := core.Today()
	month = fs.Int("month", int(today.Month), "month number (1-12)")
	year = fs.Int("year", today.Year, "year")
	return month, year
}

func checkMonth(fs *flag.FlagSet, month int) (time.Month, error) {
	if month < 1 || month > 12 {
		fs.Usage()
		return 0, errHelp
	}
	return time.Month(month), nil
}

// splitList splits a comma separated flag value, dropping blanks.
func splitList(s string) []string {
	items := make([]string, 0)
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}

func readFile(path string) ([]byte, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", path)
	}
	return data, nil
}

// readPassword prompts for a secret without echoing it.
func (cli *commandLine) readPassword(prompt string) (string, error) {
	cli.printf("%s: ", prompt)
	pwd, err := readPasswordFunc(int(os.Stdin.Fd()))
	cli.println()
	if err != nil {
		return "", errors.Wrap(err, "reading password")
	}
	return string(pwd), nil
}

// export runs job through the export runner and reports where the file landed.
func (cli *commandLine) export(name string, job func() (string, error)) error {
	res := <-cli.runner.Go(name, job)
	if res.Err != nil {
		return res.Err
	}
	cli.success(res.Message)
	return nil
}

// letterhead returns the school profile printed on PDFs, or the app name when none is saved.
func (cli *commandLine) letterhead(ctx context.Context) (school.Profile, error) {
	p, err := cli.schSvc.Get(ctx)
	if core.IsNotFound(err) {
		return school.Profile{ID: school.ProfileID, Name: cli.conf.AppName}, nil
	}
	return p, err
}
