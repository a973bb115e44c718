package sat

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/samber/lo"
)

// KissatPath locates the kissat binary; override it when the binary is not
// on PATH.
var KissatPath = "kissat"

type kissatSolver struct{}

// NewKissatSolver returns a backend that feeds the instance to an external
// kissat process in DIMACS-CNF format.
func NewKissatSolver() Solver {
	return &kissatSolver{}
}

func (solver *kissatSolver) Solve(ctx context.Context, instance SAT, budget time.Duration) (Result, error) {
	if budget > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, budget)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, KissatPath, "-q", "--relaxed")
	cmd.Stdin = strings.NewReader(instance.ToDIMACS())

	var stdOut bytes.Buffer
	cmd.Stdout = &stdOut
	var stdErr bytes.Buffer
	cmd.Stderr = &stdErr

	err := cmd.Run()
	// Exit-code 10 stands for satisfiable and exit-code 20 for unsatisfiable
	switch {
	case cmd.ProcessState != nil && cmd.ProcessState.ExitCode() == 10:
		solution, parseErr := parseDIMACSOutput(stdOut.String())
		if parseErr != nil {
			return Result{}, parseErr
		}
		return Result{Status: Satisfiable, Solution: solution}, nil
	case cmd.ProcessState != nil && cmd.ProcessState.ExitCode() == 20:
		return Result{Status: Unsatisfiable}, nil
	case errors.Is(ctx.Err(), context.DeadlineExceeded):
		return Result{Status: Unknown}, nil
	default:
		return Result{}, fmt.Errorf("an error occurred during kissat execution: %v : %v", err, stdErr.String())
	}
}

// parseDIMACSOutput collects the "v" lines of a DIMACS solution into the
// literal assignment they spell out.
func parseDIMACSOutput(solverOutput string) (Solution, error) {
	valueLines := lo.Filter(strings.Split(solverOutput, "\n"), func(line string, _ int) bool {
		return strings.HasPrefix(line, "v ") || line == "v"
	})
	if len(valueLines) == 0 {
		return nil, errors.New("no value lines in solver output")
	}

	solution := make(Solution, 0)
	for _, line := range valueLines {
		for _, field := range strings.Fields(line[1:]) {
			value, err := strconv.ParseInt(field, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("invalid literal in solver output: %v", err)
			}
			if value == 0 { // Terminating zero
				return solution, nil
			}
			solution = append(solution, value)
		}
	}

	return solution, nil
}
