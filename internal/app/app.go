package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"foodorder/internal/config"
	"foodorder/internal/platform/logger"
	"foodorder/internal/platform/sqlite"
	"foodorder/internal/report"
	"foodorder/internal/schema"
	"foodorder/internal/seed"
	"foodorder/internal/shared"
	"foodorder/internal/store"
)

// App wires application components.
type App struct {
	cfg config.Config
	log *slog.Logger
	out io.Writer
}

// Option customizes an App.
type Option func(*App)

// WithOutput redirects the printed report (default: os.Stdout).
func WithOutput(w io.Writer) Option {
	return func(a *App) { a.out = w }
}

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(a *App) { a.log = l }
}

// New creates an App for cfg. Nothing is opened until Run.
func New(cfg config.Config, opts ...Option) *App {
	a := &App{cfg: cfg, out: os.Stdout}
	for _, o := range opts {
		o(a)
	}
	if a.log == nil {
		a.log = slog.Default()
	}
	return a
}

// NewFromEnv loads configuration and builds the logger. Log records go to
// stderr; the report owns stdout.
func NewFromEnv() (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	log := logger.New(logger.Options{
		Env:          cfg.Env,
		ConsoleLevel: cfg.Log.ConsoleLevel,
		FileLevel:    cfg.Log.FileLevel,
		File:         cfg.Log.File,
		App:          "foodorder",
		Console:      os.Stderr,
	})
	return New(cfg, WithLogger(log)), nil
}

// Close releases the logger's file writer.
func (a *App) Close() error {
	return logger.Close(a.log)
}

// Run executes open, schema, seed and report in order and always returns a
// report. Only a failed open or an interrupted context stops the run early;
// every other failure is printed and the next step runs. The database handle
// is closed exactly once after a successful open.
func (a *App) Run(ctx context.Context) (rep RunReport) {
	p := report.NewPrinter(a.out)
	rep.Path = a.cfg.DB.Path

	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("panic: %v", r)
			a.log.Error("run aborted", slog.Any("err", err))
			rep.add(StepResult{Step: StepRun, Err: err})
		}
	}()

	opts := sqlite.DefaultDBOptions()
	opts.ForeignKeys = a.cfg.DB.ForeignKeys
	opts.TxLockMode = sqlite.TxLockMode(a.cfg.DB.TxLock)

	h, err := sqlite.Open(ctx, a.cfg.DB.Path, opts)
	rep.add(StepResult{Step: StepOpen, Target: a.cfg.DB.Path, Err: err})
	if err != nil {
		a.log.Error("open failed", slog.String("path", a.cfg.DB.Path), slog.Any("err", err))
		p.Line("%v", err)
		p.Line("Error! Cannot establish a connection to the database.")
		return rep
	}
	defer func() {
		err := h.Close()
		rep.add(StepResult{Step: StepClose, Target: h.Path, Err: err})
		if err != nil {
			a.log.Error("close failed", slog.Any("err", err))
			p.Line("%v", err)
		}
	}()

	rep.Connected = true
	rep.Version = h.Version
	a.log.Info("connected", slog.String("path", h.Path), slog.String("sqlite", h.Version))
	p.Line("Connected to %s. SQLite version: %s", h.Path, h.Version)

	if a.interrupted(ctx, &rep) {
		return rep
	}
	a.initSchema(ctx, h, p, &rep)

	st := store.FromHandle(h, a.log)
	if a.cfg.Seed {
		if a.interrupted(ctx, &rep) {
			return rep
		}
		a.seed(ctx, st, p, &rep)
		a.summarize(ctx, st)
	}

	if a.interrupted(ctx, &rep) {
		return rep
	}
	a.printSections(ctx, st, p, &rep)
	if a.cfg.Report.XLSX != "" {
		a.export(ctx, st, p, &rep)
	}

	a.log.Info("run finished", slog.Int("steps", len(rep.Steps)), slog.Int("failed", len(rep.Failed())))
	return rep
}

// interrupted records a canceled or expired context as a failed run step.
func (a *App) interrupted(ctx context.Context, rep *RunReport) bool {
	err := ctx.Err()
	if !shared.IsCanceled(err) && !shared.IsTimeout(err) {
		return false
	}
	a.log.Warn("run interrupted", slog.Any("err", err))
	rep.add(StepResult{Step: StepRun, Err: err})
	return true
}

func (a *App) initSchema(ctx context.Context, h *sqlite.Handle, p *report.Printer, rep *RunReport) {
	if a.cfg.Schema.Mode == config.SchemaModeMigrate {
		version, err := schema.Migrate(h.Path)
		res := StepResult{Step: StepSchema, Target: "migrations", Err: err}
		if err != nil {
			a.log.Error("migration failed", slog.Any("err", err))
			p.Line("%v", err)
		} else {
			res.Detail = fmt.Sprintf("version %d", version)
			a.log.Info("migrations applied", slog.Uint64("version", uint64(version)))
		}
		rep.add(res)
		return
	}

	res := schema.NewInitializer(a.log).Init(ctx, h.DB)
	for _, r := range res.Results {
		rep.add(StepResult{Step: StepSchema, Target: r.Table, Err: r.Err})
		if r.Err != nil {
			p.Line("%v", r.Err)
		}
	}
}

func (a *App) seed(ctx context.Context, st *store.Store, p *report.Printer, rep *RunReport) {
	for _, b := range seed.Batches() {
		n, err := st.InsertBatch(ctx, b.Template, b.Rows)
		rep.add(StepResult{Step: StepSeed, Target: b.Table, Rows: n, Err: err})
		switch {
		case err == nil:
			a.log.Debug("seeded", slog.String("table", b.Table), slog.Int("rows", n))
			continue
		case shared.HasKind(err, shared.KindConflict):
			a.log.Warn("rows already present", slog.String("table", b.Table), slog.Any("err", err))
		default:
			a.log.Error("seed failed", slog.String("table", b.Table), slog.Any("err", err))
		}
		p.Line("%v", err)
	}
}

// summarize logs how many categories, dishes and orders the database holds
// after seeding.
func (a *App) summarize(ctx context.Context, st *store.Store) {
	cats, err := st.Categories(ctx)
	if err != nil {
		a.log.Warn("summary unavailable", slog.Any("err", err))
		return
	}
	dishes, err := st.Dishes(ctx)
	if err != nil {
		a.log.Warn("summary unavailable", slog.Any("err", err))
		return
	}
	orders, err := st.Orders(ctx)
	if err != nil {
		a.log.Warn("summary unavailable", slog.Any("err", err))
		return
	}

	var total float64
	for _, o := range orders {
		if o.TotalPrice.Valid {
			total += o.TotalPrice.Float64
		}
	}
	a.log.Info("catalogue summary",
		slog.Int("categories", len(cats)),
		slog.Int("dishes", len(dishes)),
		slog.Int("orders", len(orders)),
		slog.Float64("orders_total", total),
	)
}

func (a *App) printSections(ctx context.Context, st *store.Store, p *report.Printer, rep *RunReport) {
	for _, sec := range seed.Sections() {
		p.Header(sec.Title)

		n, err := st.SelectAndPrint(ctx, p.Writer(), sec.Query)
		rep.add(StepResult{Step: StepSelect, Target: sec.Title, Rows: n, Err: err})
		if err != nil {
			a.log.Error("select failed", slog.String("section", sec.Title), slog.Any("err", err))
			p.Line("%v", err)
		}
	}
}

// export writes every section that can be read to the XLSX workbook. A section
// whose query fails is skipped; the failure is already on the printed report.
func (a *App) export(ctx context.Context, st *store.Store, p *report.Printer, rep *RunReport) {
	wb := report.NewWorkbook()
	defer wb.Close()

	var errs []error
	for _, sec := range seed.Sections() {
		rs, err := st.Select(ctx, sec.Query)
		if err != nil {
			continue
		}
		errs = append(errs, wb.AddSection(sec.Title, rs))
	}

	err := errors.Join(errs...)
	if err == nil {
		err = wb.SaveAs(a.cfg.Report.XLSX)
	}
	rep.add(StepResult{Step: StepExport, Target: a.cfg.Report.XLSX, Err: err})
	if err != nil {
		a.log.Error("export failed", slog.String("file", a.cfg.Report.XLSX), slog.Any("err", err))
		p.Line("%v", err)
		return
	}
	a.log.Info("report exported", slog.String("file", a.cfg.Report.XLSX), slog.Any("sheets", wb.Sheets()))
}
