package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"text/tabwriter"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"go.temporal.io/sdk/client"

	"github.com/samirrijal/rrlprofile/internal/adapters/surveyfile"
	"github.com/samirrijal/rrlprofile/internal/adapters/xlsx"
	"github.com/samirrijal/rrlprofile/internal/core/domain"
	"github.com/samirrijal/rrlprofile/internal/pkg/config"
	"github.com/samirrijal/rrlprofile/internal/pkg/logging"
	"github.com/samirrijal/rrlprofile/internal/workflows"
)

func main() {
	out := flag.String("out", "", "write the report to this .xlsx file")
	timeout := flag.Duration("timeout", 10*time.Minute, "how long to wait for the survey")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: survey [-out report.xlsx] [-timeout 10m] links.yaml|links.xlsx\n")
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	_ = godotenv.Load()
	os.Exit(run(flag.Arg(0), *out, *timeout))
}

// run submits the survey and returns the process exit code: 1 when any link
// failed to compute.
func run(path, out string, timeout time.Duration) int {
	cfg, err := config.Load("rrl-survey")
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logging.Setup(cfg.Log.Level, "text")

	input, err := surveyfile.Load(path, domain.RequestDefaults{
		KFactor:    cfg.Profile.DefaultKFactor,
		StepMeters: cfg.Profile.DefaultStepMeters,
	})
	if err != nil {
		log.Fatalf("load survey: %v", err)
	}

	c, err := client.Dial(client.Options{
		HostPort:  cfg.Temporal.HostPort,
		Namespace: cfg.Temporal.Namespace,
	})
	if err != nil {
		log.Fatalf("temporal client: %v", err)
	}
	defer c.Close()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	queue := cfg.Temporal.TaskQueue
	if queue == "" {
		queue = workflows.DefaultTaskQueue
	}
	we, err := c.ExecuteWorkflow(ctx, client.StartWorkflowOptions{
		ID:        "survey-" + uuid.NewString(),
		TaskQueue: queue,
	}, workflows.SurveyWorkflow, input)
	if err != nil {
		log.Fatalf("start survey: %v", err)
	}
	slog.Info("survey started", "name", input.Name, "links", len(input.Links),
		"workflow_id", we.GetID(), "run_id", we.GetRunID())

	var report domain.SurveyReport
	if err := we.Get(ctx, &report); err != nil {
		log.Fatalf("survey failed: %v", err)
	}

	printReport(&report)

	if out != "" {
		if err := writeReport(out, &report); err != nil {
			slog.Error("write report", "error", err)
			return 1
		}
		slog.Info("report written", "path", out)
	}
	if report.Failed > 0 {
		return 1
	}
	return 0
}

func printReport(report *domain.SurveyReport) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "LINK\tDISTANCE (km)\tLOS\tFRESNEL 60%\tMIN CLEAR60 (m)\tLIFT A/B/BOTH (m)\tERROR")
	for _, o := range report.Outcomes {
		if o.Summary == nil {
			fmt.Fprintf(w, "%s\t-\t-\t-\t-\t-\t%s: %s\n", o.LinkID, o.ErrorCode, o.ErrorMessage)
			continue
		}
		s := o.Summary
		fmt.Fprintf(w, "%s\t%.2f\t%s\t%s\t%.1f\t%.1f/%.1f/%.1f\t\n",
			o.LinkID, s.DistanceMeters/1000, okMark(s.LOSOk), okMark(s.FresnelOk), s.MinClearance60,
			s.RecommendedLift.OnlyA, s.RecommendedLift.OnlyB, s.RecommendedLift.BothEqual)
	}
	_ = w.Flush()
	fmt.Printf("\n%s: %d viable, %d obstructed, %d failed\n",
		report.Name, report.Viable, report.Obstructed, report.Failed)
}

func okMark(ok bool) string {
	if ok {
		return "ok"
	}
	return "BLOCKED"
}

func writeReport(path string, report *domain.SurveyReport) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := xlsx.WriteSurvey(f, report); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
