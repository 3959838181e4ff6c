package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/reactord/internal/analysis"
	"github.com/san-kum/reactord/internal/config"
	"github.com/san-kum/reactord/internal/experiment"
	"github.com/san-kum/reactord/internal/optim"
	"github.com/san-kum/reactord/internal/solver"
	"github.com/san-kum/reactord/internal/store"
	"github.com/san-kum/reactord/internal/tui"
)

var (
	configFile  string
	mechanism   string
	temperature float64
	pressure    float64
	dt          float64
	duration    float64
	integrator  string
	output      string
	outputFile  string
	plotComp    string
	watchComp   string

	sweepFrom    float64
	sweepTo      float64
	sweepSteps   int
	sweepWorkers int
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "reactord",
		Short: "zero-dimensional reactor simulation lab",
	}

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "integrate a reactor network and report the result",
		RunE:  runSimulation,
	}
	runCmd.Flags().StringVar(&configFile, "config", "", "yaml configuration file")
	runCmd.Flags().StringVar(&mechanism, "mech", "", "gas mechanism preset")
	runCmd.Flags().Float64Var(&temperature, "T", 0, "initial temperature, K")
	runCmd.Flags().Float64Var(&pressure, "p", 0, "initial pressure, Pa")
	runCmd.Flags().Float64Var(&dt, "dt", 0, "timestep, s")
	runCmd.Flags().Float64Var(&duration, "time", 0, "duration, s")
	runCmd.Flags().StringVar(&integrator, "integrator", "", "euler, rk4 or rk45")
	runCmd.Flags().StringVar(&output, "output", "table", "table, json or csv")
	runCmd.Flags().StringVar(&outputFile, "out", "", "write output to file instead of stdout")
	runCmd.Flags().StringVar(&plotComp, "plot", "", "component to plot after the run")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "watch a simulation evolve in the terminal",
		RunE:  runLive,
	}
	liveCmd.Flags().StringVar(&configFile, "config", "", "yaml configuration file")
	liveCmd.Flags().StringVar(&mechanism, "mech", "", "gas mechanism preset")
	liveCmd.Flags().StringVar(&watchComp, "watch", "temperature", "component to plot")

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "sweep the initial temperature and report ignition delays",
		RunE:  runSweep,
	}
	sweepCmd.Flags().StringVar(&configFile, "config", "", "yaml configuration file")
	sweepCmd.Flags().StringVar(&mechanism, "mech", "", "gas mechanism preset")
	sweepCmd.Flags().Float64Var(&sweepFrom, "from", 1000, "lowest initial temperature, K")
	sweepCmd.Flags().Float64Var(&sweepTo, "to", 1500, "highest initial temperature, K")
	sweepCmd.Flags().IntVar(&sweepSteps, "steps", 6, "number of sweep points")
	sweepCmd.Flags().IntVar(&sweepWorkers, "workers", 4, "parallel runs")

	mechsCmd := &cobra.Command{
		Use:   "mechs",
		Short: "list the built-in mechanisms",
		Run:   listMechanisms,
	}

	initCmd := &cobra.Command{
		Use:   "init [file]",
		Short: "write a default configuration file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return config.Save(args[0], config.DefaultConfig())
		},
	}

	rootCmd.AddCommand(runCmd, liveCmd, sweepCmd, mechsCmd, initCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, error) {
	cfg := config.DefaultConfig()
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if mechanism != "" {
		cfg.Mechanism = mechanism
	}
	if temperature > 0 {
		cfg.Reactor.Temperature = temperature
	}
	if pressure > 0 {
		cfg.Reactor.Pressure = pressure
	}
	if dt > 0 {
		cfg.Dt = dt
	}
	if duration > 0 {
		cfg.Duration = duration
	}
	if integrator != "" {
		cfg.Integrator = integrator
	}
	return cfg, nil
}

func componentLabels(setup *experiment.Setup, n int) []string {
	labels := make([]string, n)
	for i := range labels {
		name, err := setup.ComponentName(i)
		if err != nil {
			name = "c" + strconv.Itoa(i)
		}
		labels[i] = name
	}
	return labels
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	result, setup, err := experiment.Run(context.Background(), cfg)
	if err != nil {
		return err
	}
	for _, stepErr := range result.Errors {
		fmt.Fprintf(os.Stderr, "warning: %v\n", stepErr)
	}

	labels := componentLabels(setup, setup.Net.NEq())

	switch output {
	case "json":
		if outputFile != "" {
			if err := store.ExportJSON(outputFile, cfg.Mechanism, cfg.Integrator, cfg.Dt, cfg.Duration, labels, result); err != nil {
				return err
			}
		} else if err := store.ExportJSONStdout(cfg.Mechanism, cfg.Integrator, cfg.Dt, cfg.Duration, labels, result); err != nil {
			return err
		}
	case "csv":
		if err := writeCSV(labels, result.Times, result.States); err != nil {
			return err
		}
	default:
		printSummary(cfg, labels, result)
	}

	if plotComp != "" {
		idx := setup.ComponentIndex(plotComp)
		if idx < 0 {
			return fmt.Errorf("unknown component %q", plotComp)
		}
		series := make([]float64, len(result.States))
		for i, s := range result.States {
			series[i] = s[idx]
		}
		fmt.Println(asciigraph.Plot(series, asciigraph.Height(12), asciigraph.Width(70), asciigraph.Caption(plotComp)))
	}
	return nil
}

func printSummary(cfg *config.Config, labels []string, result *solver.Result) {
	last := result.States[len(result.States)-1]
	tEnd := result.Times[len(result.Times)-1]

	fmt.Printf("mechanism %s, integrator %s, %d steps to t=%.6g s\n\n",
		cfg.Mechanism, cfg.Integrator, result.StepsTaken, tEnd)

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "COMPONENT\tINITIAL\tFINAL")
	first := result.States[0]
	for i, lbl := range labels {
		fmt.Fprintf(w, "%s\t%.6g\t%.6g\n", lbl, first[i], last[i])
	}
	w.Flush()

	if len(result.Metrics) > 0 {
		fmt.Println()
		mw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(mw, "METRIC\tVALUE")
		for name, v := range result.Metrics {
			fmt.Fprintf(mw, "%s\t%.6g\n", name, v)
		}
		mw.Flush()
	}

	if idx := indexOf(labels, "temperature"); idx >= 0 {
		if tau, err := analysis.IgnitionDelay(result.Times, result.States, idx); err == nil {
			fmt.Printf("\nignition delay (max dT/dt): %.6g s\n", tau)
		}
	}
}

func indexOf(labels []string, name string) int {
	for i, l := range labels {
		if l == name {
			return i
		}
	}
	return -1
}

func writeCSV(labels []string, times []float64, states []solver.State) error {
	w := csv.NewWriter(os.Stdout)
	defer w.Flush()

	header := append([]string{"time"}, labels...)
	if err := w.Write(header); err != nil {
		return err
	}
	row := make([]string, len(header))
	for i := range times {
		row[0] = strconv.FormatFloat(times[i], 'g', -1, 64)
		for j, v := range states[i] {
			row[j+1] = strconv.FormatFloat(v, 'g', -1, 64)
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	setup, err := experiment.Build(cfg)
	if err != nil {
		return err
	}
	if err := setup.Net.Initialize(0); err != nil {
		return err
	}
	integ, err := experiment.NewIntegrator(cfg.Integrator)
	if err != nil {
		return err
	}
	y0, err := setup.Net.State()
	if err != nil {
		return err
	}

	labels := componentLabels(setup, setup.Net.NEq())
	watch := setup.ComponentIndex(watchComp)
	if watch < 0 {
		watch = 0
	}

	return tui.RunMonitor(tui.NewMonitor(setup.Net, integ, y0, labels, watch, cfg.Dt))
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if sweepSteps < 2 {
		return fmt.Errorf("need at least 2 sweep points")
	}

	temps := make([]float64, sweepSteps)
	for i := range temps {
		temps[i] = sweepFrom + (sweepTo-sweepFrom)*float64(i)/float64(sweepSteps-1)
	}

	sweep := optim.NewTemperatureSweep(cfg, sweepWorkers)
	points := sweep.Run(context.Background(), temps)

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "T0 [K]\tIGNITION DELAY [s]\tPEAK T [K]")
	for _, p := range points {
		if p.Err != nil {
			fmt.Fprintf(w, "%.1f\terror: %v\t\n", p.Temperature, p.Err)
			continue
		}
		fmt.Fprintf(w, "%.1f\t%.6g\t%.1f\n", p.Temperature, p.IgnitionDelay, p.PeakValue)
	}
	return w.Flush()
}

func listMechanisms(cmd *cobra.Command, args []string) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tSPECIES\tREACTIONS")
	for _, name := range config.MechanismNames() {
		m, _ := config.Mechanism(name)
		fmt.Fprintf(w, "%s\t%d\t%d\n", name, len(m.Species), len(m.Reactions))
	}
	for _, name := range config.SurfaceMechanismNames() {
		m, _ := config.SurfaceMechanism(name)
		fmt.Fprintf(w, "%s (surface)\t%d\t%d\n", name, len(m.Species), len(m.Reactions))
	}
	w.Flush()
}
