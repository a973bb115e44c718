package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/campusplan/timetabling/pkg/model"
	"github.com/campusplan/timetabling/pkg/sat"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var validSolvers = []string{"gini", "kissat"}

var solvers = map[string]func() sat.Solver{
	"gini":   sat.NewGiniSolver,
	"kissat": sat.NewKissatSolver,
}

type outputAssignment struct {
	Day      uint64 `json:"day"`
	Period   uint64 `json:"period"`
	Duration uint64 `json:"duration"`
	Room     string `json:"room"`
}

type output struct {
	Status      string                        `json:"status"`
	Summary     string                        `json:"summary"`
	Diagnostics []string                      `json:"diagnostics,omitempty"`
	Sections    map[string][]outputAssignment `json:"sections"`
	Unassigned  []string                      `json:"unassigned,omitempty"`
}

func main() {
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	// Define arguments
	configPtr := flag.String("config", "", "Path to an optional config file read by viper; flags take precedence")
	filePtr := flag.String("file", "", "Path to the JSON problem file")
	outPtr := flag.String("out", "", "Path to the file where the timetable will be written; if empty, it'll be written into the Standard Output")
	usagePtr := flag.String("usage", "", "Path to the usage-history JSON file; read before the solve and updated with the new allocations afterwards")
	solverPtr := flag.String("solver", "", `Solver backend to use. Allowed values are: "gini" (embedded, the default) and "kissat" (external binary)`)
	budgetPtr := flag.Float64("budget", 0, "Solve budget in seconds, where 30 is the default; a negative value disables the limit")
	diagnosePtr := flag.Bool("diagnose", true, "Run the constraint-relaxation diagnosis when the problem is proven infeasible")
	flag.Parse()

	flagsSet := make(map[string]bool)
	flag.Visit(func(f *flag.Flag) { flagsSet[f.Name] = true })

	// Layer defaults, config file and environment under the flags
	viper.SetDefault("solver", "gini")
	viper.SetDefault("budget", model.DefaultBudget.Seconds())
	viper.SetDefault("diagnose", true)
	viper.SetEnvPrefix("TT")
	viper.AutomaticEnv()
	if *configPtr != "" {
		viper.SetConfigFile(*configPtr)
		if err := viper.ReadInConfig(); err != nil {
			logger.Fatal("cannot read config file", zap.Error(err))
		}
	}

	solverStr := strings.ToLower(viper.GetString("solver"))
	if flagsSet["solver"] {
		solverStr = strings.ToLower(*solverPtr)
	}
	budgetSeconds := viper.GetFloat64("budget")
	if flagsSet["budget"] {
		budgetSeconds = *budgetPtr
	}
	diagnose := viper.GetBool("diagnose")
	if flagsSet["diagnose"] {
		diagnose = *diagnosePtr
	}

	// Validate arguments
	if !slices.Contains(validSolvers, solverStr) {
		logger.Fatal("not a valid solver", zap.String("solver", solverStr))
	} else if *filePtr == "" {
		logger.Fatal("an input file must be specified")
	}

	// Load usage history
	usage := model.Usage{}
	if *usagePtr != "" {
		var err error
		if usage, err = model.LoadUsage(*usagePtr); err != nil {
			logger.Fatal("cannot load usage history", zap.Error(err))
		}
	}

	// Extract input
	problem, err := model.InputFromJson(*filePtr, usage)
	if err != nil {
		logger.Fatal("cannot parse input file", zap.Error(err))
	}

	// Initialize engine
	budget := time.Duration(budgetSeconds * float64(time.Second))
	if budgetSeconds < 0 {
		budget = -1
	}
	timetabler := model.NewTimetabler(solvers[solverStr](), model.Config{
		Budget:             budget,
		DisableDiagnostics: !diagnose,
		Logger:             logger,
	})

	// Build timetable
	timetable, err := timetabler.Build(context.Background(), problem)
	if _, ok := err.(model.InternalConsistencyError); ok {
		logger.Error("verification failed", zap.Error(err))
		os.Exit(15)
	} else if err != nil && timetable.Status != model.StatusInfeasible {
		logger.Fatal("an error occurred during timetable construction", zap.Error(err))
	}

	// Persist updated usage history
	if *usagePtr != "" && len(timetable.Assignments) > 0 {
		merged := model.MergeAssignments(problem, usage, timetable.Assignments)
		if err := model.SaveUsage(*usagePtr, merged); err != nil {
			logger.Fatal("cannot save usage history", zap.Error(err))
		}
	}

	// Build output from timetable
	result := output{
		Status:      string(timetable.Status),
		Summary:     timetable.Diagnostic(),
		Diagnostics: timetable.Diagnostics,
		Sections:    make(map[string][]outputAssignment),
	}
	for _, assignment := range timetable.Assignments {
		section := problem.Sections[assignment.Section]
		result.Sections[section.Name] = append(result.Sections[section.Name], outputAssignment{
			Day:      assignment.Slot.Day,
			Period:   assignment.Slot.Period,
			Duration: section.Duration,
			Room:     problem.Rooms[assignment.Room].Name,
		})
	}
	for _, ref := range timetable.Unassigned {
		result.Unassigned = append(result.Unassigned, fmt.Sprintf("%v#%v", problem.Sections[ref.Section].Name, ref.Session))
	}

	// Marshal output into json
	resultJson, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		logger.Fatal("an error occurred while building output json", zap.Error(err))
	}

	if *outPtr == "" {
		fmt.Println(string(resultJson))
	} else if err := os.WriteFile(*outPtr, resultJson, 0666); err != nil {
		logger.Fatal("an error occurred while writing to the output file", zap.Error(err))
	}

	switch timetable.Status {
	case model.StatusFeasible:
		os.Exit(10)
	case model.StatusInfeasible:
		os.Exit(20)
	default:
		os.Exit(0)
	}
}
