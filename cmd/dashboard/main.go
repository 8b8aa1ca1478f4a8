// El dashboard CLI consume el backend de inventario: resumen, análisis,
// movimientos, cargas de archivos y exportaciones, desde la terminal.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/tu-usuario/inventario-dashboard/internal/application/dashboard"
	"github.com/tu-usuario/inventario-dashboard/internal/domain/inventory"
	"github.com/tu-usuario/inventario-dashboard/internal/infrastructure/api"
	"github.com/tu-usuario/inventario-dashboard/internal/infrastructure/prefs"
	"github.com/tu-usuario/inventario-dashboard/internal/interfaces/cli/output"
	"github.com/tu-usuario/inventario-dashboard/pkg/config"
	"github.com/tu-usuario/inventario-dashboard/pkg/logger"
)

const usage = `uso: dashboard <comando> [flags]

Comandos:
  summary                      resumen del inventario
  analysis                     análisis de productos (filtros se recuerdan)
  movements                    movimientos de inventario
  monthly                      agregado mensual de movimientos
  products                     fichas de producto del archivo base
  history <código>             historial de un producto
  batches                      batches de importación
  inventories                  lista de inventarios
  create-inventory <nombre>    crea un inventario
  upload-base <archivo>        carga el archivo base (.xls/.xlsx)
  update <archivos...>         carga archivos de actualización
  export-analysis              exporta el análisis (-format excel|pdf)
  export-movements             exporta los movimientos (-format excel|pdf)
  welcome                      verifica conexión con el backend
`

type app struct {
	client *api.Client
	uc     *dashboard.UseCase
	log    *logger.Logger
}

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "cargar configuración:", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})

	store, err := prefs.New("")
	if err != nil {
		// Sin preferencias se puede trabajar igual; solo no se recuerdan filtros.
		log.Warn().Err(err).Msg("no se pudo abrir el almacén de preferencias")
	}

	client := api.New(cfg.API, log)
	var filterPrefs dashboard.FilterPrefs
	if store != nil {
		filterPrefs = store
	}
	a := &app{
		client: client,
		uc:     dashboard.New(client, filterPrefs, log),
		log:    log,
	}

	ctx := context.Background()
	if err := a.run(ctx, os.Args[1], os.Args[2:]); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func (a *app) run(ctx context.Context, command string, args []string) error {
	switch command {
	case "summary":
		return a.summary(ctx)
	case "analysis":
		return a.analysis(ctx, args)
	case "movements":
		return a.movements(ctx, args, false)
	case "monthly":
		return a.movements(ctx, args, true)
	case "products":
		return a.products(ctx)
	case "history":
		return a.history(ctx, args)
	case "batches":
		return a.batches(ctx)
	case "inventories":
		return a.inventories(ctx)
	case "create-inventory":
		return a.createInventory(ctx, args)
	case "upload-base":
		return a.uploadBase(ctx, args)
	case "update":
		return a.update(ctx, args)
	case "export-analysis":
		return a.export(ctx, "analysis", args)
	case "export-movements":
		return a.export(ctx, "movements", args)
	case "welcome":
		return a.welcome(ctx)
	default:
		fmt.Fprint(os.Stderr, usage)
		return fmt.Errorf("comando desconocido: %s", command)
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Flags de filtros
// ──────────────────────────────────────────────────────────────────────────────

type filterArgs struct {
	warehouse, group, rotation, stagnant, highRotation, search string
	from, to                                                   string
	set                                                        bool // algún flag de filtro fue provisto
}

func addFilterFlags(fs *flag.FlagSet, fa *filterArgs) {
	fs.StringVar(&fa.warehouse, "warehouse", "", "filtrar por almacén")
	fs.StringVar(&fa.group, "group", "", "filtrar por grupo/categoría")
	fs.StringVar(&fa.rotation, "rotation", "", "filtrar por rotación (Activo|Estancado|Obsoleto)")
	fs.StringVar(&fa.stagnant, "stagnant", "", "filtrar por estancado (Sí|No)")
	fs.StringVar(&fa.highRotation, "high-rotation", "", "filtrar por alta rotación (Sí|No)")
	fs.StringVar(&fa.search, "search", "", "búsqueda libre por código o nombre")
	fs.StringVar(&fa.from, "from", "", "fecha desde (YYYY-MM-DD)")
	fs.StringVar(&fa.to, "to", "", "fecha hasta (YYYY-MM-DD)")
}

func (fa *filterArgs) state(fs *flag.FlagSet) (inventory.FilterState, error) {
	fs.Visit(func(*flag.Flag) { fa.set = true })

	f := inventory.FilterState{
		Warehouse:    fa.warehouse,
		Group:        fa.group,
		Rotation:     fa.rotation,
		Stagnant:     fa.stagnant,
		HighRotation: fa.highRotation,
		Search:       fa.search,
	}
	if fa.from != "" {
		t, err := time.Parse("2006-01-02", fa.from)
		if err != nil {
			return f, fmt.Errorf("fecha -from inválida: %s", fa.from)
		}
		f.DateFrom = &t
	}
	if fa.to != "" {
		t, err := time.Parse("2006-01-02", fa.to)
		if err != nil {
			return f, fmt.Errorf("fecha -to inválida: %s", fa.to)
		}
		f.DateTo = &t
	}
	return f, nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Comandos de lectura
// ──────────────────────────────────────────────────────────────────────────────

func (a *app) summary(ctx context.Context) error {
	s, err := a.uc.LoadSummary(ctx)
	if err != nil {
		return err
	}
	output.Summary(os.Stdout, s)
	return nil
}

func (a *app) analysis(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("analysis", flag.ExitOnError)
	var fa filterArgs
	addFilterFlags(fs, &fa)
	reset := fs.Bool("reset-filters", false, "olvidar los filtros guardados")
	if err := fs.Parse(args); err != nil {
		return err
	}

	f, err := fa.state(fs)
	if err != nil {
		return err
	}
	// Los filtros de análisis son pegajosos: se restauran de la sesión
	// anterior y cada cambio explícito se persiste.
	switch {
	case *reset:
		a.uc.SetAnalysisFilters(inventory.FilterState{})
	case fa.set:
		a.uc.SetAnalysisFilters(f)
	}

	result, err := a.uc.LoadAnalysis(ctx)
	if err != nil {
		return err
	}
	output.Analysis(os.Stdout, result)
	return nil
}

func (a *app) movements(ctx context.Context, args []string, onlyMonthly bool) error {
	name := "movements"
	if onlyMonthly {
		name = "monthly"
	}
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	var fa filterArgs
	addFilterFlags(fs, &fa)
	if err := fs.Parse(args); err != nil {
		return err
	}
	f, err := fa.state(fs)
	if err != nil {
		return err
	}
	a.uc.SetMovementFilters(f)

	result, err := a.uc.LoadMovements(ctx)
	if err != nil {
		return err
	}
	if onlyMonthly {
		output.Monthly(os.Stdout, result.Monthly)
		return nil
	}
	output.Movements(os.Stdout, result)
	return nil
}

func (a *app) products(ctx context.Context) error {
	products, err := a.client.GetProducts(ctx)
	if err != nil {
		return err
	}
	output.Products(os.Stdout, products)
	return nil
}

func (a *app) history(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("uso: dashboard history <código>")
	}
	records, err := a.client.GetProductHistory(ctx, args[0])
	if err != nil {
		return err
	}
	output.History(os.Stdout, args[0], records)
	return nil
}

func (a *app) batches(ctx context.Context) error {
	batches, err := a.client.GetBatches(ctx)
	if err != nil {
		return err
	}
	output.Batches(os.Stdout, batches)
	return nil
}

func (a *app) inventories(ctx context.Context) error {
	names, err := a.client.ListInventories(ctx)
	if err != nil {
		return err
	}
	output.Inventories(os.Stdout, names)
	return nil
}

func (a *app) createInventory(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("uso: dashboard create-inventory <nombre>")
	}
	if err := a.client.CreateInventory(ctx, args[0]); err != nil {
		return err
	}
	fmt.Printf("Inventario %q creado.\n", args[0])
	return nil
}

func (a *app) welcome(ctx context.Context) error {
	msg, err := a.client.Welcome(ctx)
	if err != nil {
		return err
	}
	fmt.Println(msg)

	lu, err := a.client.LastUpdate(ctx)
	if err == nil && lu.LastUpdate != nil {
		fmt.Println("Última actualización:", lu.LastUpdate.Format("2006-01-02 15:04"))
	}
	return nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Cargas y exportaciones
// ──────────────────────────────────────────────────────────────────────────────

func (a *app) uploadBase(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("uso: dashboard upload-base <archivo.xlsx>")
	}
	content, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}

	result, err := a.client.UploadBaseFile(ctx, content, filepath.Base(args[0]))
	if err != nil {
		return err // validación local: nunca llegó a la red
	}
	if !result.Ok {
		msg := result.Error
		if msg == "" {
			msg = "la carga falló sin detalle del servidor"
		}
		return fmt.Errorf("%s", msg)
	}
	fmt.Println("Archivo base cargado correctamente.")
	return nil
}

func (a *app) update(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("uso: dashboard update <archivo.xlsx> [más archivos...]")
	}
	files := make([]api.UploadFile, 0, len(args))
	for _, path := range args {
		content, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		files = append(files, api.UploadFile{Name: filepath.Base(path), Content: content})
	}

	status, body, err := a.client.UploadUpdateFiles(ctx, files)
	if err != nil {
		return err
	}
	if status < 200 || status > 299 {
		return fmt.Errorf("el servidor respondió %d: %s", status, string(body))
	}
	fmt.Printf("%d archivo(s) de actualización cargados.\n", len(files))
	return nil
}

func (a *app) export(ctx context.Context, kind string, args []string) error {
	fs := flag.NewFlagSet("export-"+kind, flag.ExitOnError)
	var fa filterArgs
	addFilterFlags(fs, &fa)
	formatFlag := fs.String("format", api.FormatExcel, "formato de exportación: excel o pdf")
	out := fs.String("out", "", "ruta del archivo de salida")
	if err := fs.Parse(args); err != nil {
		return err
	}
	f, err := fa.state(fs)
	if err != nil {
		return err
	}

	var result *api.ExportResult
	if kind == "analysis" {
		result, err = a.client.ExportAnalysis(ctx, *formatFlag, f)
	} else {
		result, err = a.client.ExportMovements(ctx, *formatFlag, f)
	}
	if err != nil {
		return err
	}
	if result.StatusCode < 200 || result.StatusCode > 299 {
		return fmt.Errorf("la exportación falló con status %d", result.StatusCode)
	}

	path := *out
	if path == "" {
		ext := ".xlsx"
		if *formatFlag == api.FormatPDF {
			ext = ".pdf"
		}
		path = "inventario_" + kind + "_" + time.Now().Format("20060102_150405") + ext
	}
	if err := os.WriteFile(path, result.Body, 0o644); err != nil {
		return fmt.Errorf("guardando exportación: %w", err)
	}
	fmt.Printf("Exportación guardada en %s (%d bytes).\n", path, len(result.Body))
	return nil
}
