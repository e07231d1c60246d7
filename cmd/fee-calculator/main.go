package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/batch-fee-api/internal/calculator"
	"github.com/noah-isme/batch-fee-api/internal/repository"
	"github.com/noah-isme/batch-fee-api/internal/service"
	"github.com/noah-isme/batch-fee-api/pkg/config"
	"github.com/noah-isme/batch-fee-api/pkg/database"
	"github.com/noah-isme/batch-fee-api/pkg/logger"
)

type discountFlags []string

func (d *discountFlags) String() string {
	return strings.Join(*d, ", ")
}

func (d *discountFlags) Set(value string) error {
	*d = append(*d, value)
	return nil
}

type discountArg struct {
	StudentName string
	Category    string
	Amount      string
}

// parseDiscount splits "student:category:amount". The student name may contain
// colons; the category and amount may not.
func parseDiscount(raw string) (discountArg, error) {
	last := strings.LastIndex(raw, ":")
	if last < 0 {
		return discountArg{}, fmt.Errorf("discount %q: want student:category:amount", raw)
	}
	head, amount := raw[:last], raw[last+1:]
	mid := strings.LastIndex(head, ":")
	if mid < 0 {
		return discountArg{}, fmt.Errorf("discount %q: want student:category:amount", raw)
	}
	return discountArg{StudentName: head[:mid], Category: head[mid+1:], Amount: amount}, nil
}

func main() {
	var (
		batchID        string
		feeStructureID string
		discounts      discountFlags
		submit         bool
		delay          time.Duration
		timeout        time.Duration
	)

	flag.StringVar(&batchID, "batch", "", "Batch ID")
	flag.StringVar(&feeStructureID, "fee-structure", "", "Fee structure ID")
	flag.Var(&discounts, "discount", "Student discount as student:category:amount (repeatable)")
	flag.BoolVar(&submit, "submit", false, "Save the calculation as a batch fee")
	flag.DurationVar(&delay, "delay", -1, "Recompute delay (defaults to CALCULATION_DELAY)")
	flag.DurationVar(&timeout, "timeout", 30*time.Second, "Overall timeout")
	flag.Parse()

	if batchID == "" || feeStructureID == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if delay < 0 {
		delay = cfg.Calculation.Delay
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer db.Close()

	validate := validator.New()
	feeStructureRepo := repository.NewFeeStructureRepository(db)
	batchSvc := service.NewBatchService(repository.NewBatchRepository(db), nil, validate, logr)
	feeStructureSvc := service.NewFeeStructureService(feeStructureRepo, nil, validate, logr)
	batchFeeSvc := service.NewBatchFeeService(service.BatchFeeServiceParams{
		Repo:          repository.NewBatchFeeRepository(db),
		Batches:       batchSvc,
		FeeStructures: feeStructureSvc,
		FeeLookup:     feeStructureRepo,
		Validator:     validate,
		Logger:        logr,
	})

	batch, err := batchSvc.Get(ctx, batchID)
	if err != nil {
		logr.Fatal("failed to load batch", zap.Error(err))
	}
	feeStructure, err := feeStructureSvc.Get(ctx, feeStructureID)
	if err != nil {
		logr.Fatal("failed to load fee structure", zap.Error(err))
	}

	session := calculator.NewSession(batchFeeSvc, calculator.SessionOptions{Delay: delay, Logger: logr})
	defer session.Close()

	session.SelectBatch(*batch)
	session.SelectFeeStructure(*feeStructure)
	for _, raw := range discounts {
		arg, err := parseDiscount(raw)
		if err != nil {
			logr.Fatal("invalid discount flag", zap.Error(err))
		}
		if _, ok := session.AddDiscount(arg.StudentName, arg.Category, arg.Amount); !ok {
			logr.Warn("discount ignored, check student name, category and amount", zap.String("discount", raw))
		}
	}

	result, err := session.Wait(ctx)
	if err != nil {
		logr.Fatal("calculation did not finish", zap.Error(err))
	}
	if err := printResult(os.Stdout, result); err != nil {
		logr.Fatal("failed to print result", zap.Error(err))
	}

	if !submit {
		return
	}
	fee, err := session.Submit(ctx)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			logr.Fatal("submission timed out", zap.Duration("timeout", timeout))
		}
		logr.Fatal("submission failed", zap.Error(err))
	}
	fmt.Fprintf(os.Stdout, "\nsaved batch fee %s\n", fee.ID)
}

func printResult(w io.Writer, r *calculator.Result) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "Batch\t%s (%d students, %s, %s)\n", r.Batch.BatchName, r.TotalStudents, r.Batch.Course, r.Batch.Medium)
	fmt.Fprintf(tw, "Fee structure\t%s (%s)\n", r.FeeStructure.Name, r.FeeStructure.Region)
	fmt.Fprintf(tw, "Monthly fee per student\t%s\n", r.MonthlyFeePerStudent.StringFixed(2))
	fmt.Fprintf(tw, "Total monthly fee\t%s\n", r.TotalMonthlyFee.StringFixed(2))
	fmt.Fprintf(tw, "Total discount\t%s\n", r.TotalDiscount.StringFixed(2))
	fmt.Fprintf(tw, "Final fee\t%s\n", r.FinalFee.StringFixed(2))
	for _, m := range r.Mismatches() {
		fmt.Fprintf(tw, "Warning\t%s: batch %s, fee structure %s\n", m.Field, m.Batch, m.FeeStructure)
	}
	if len(r.Discounts) > 0 {
		fmt.Fprintln(tw, "\nStudent\tCategory\tDiscount\tFee after discount")
		for _, d := range r.Discounts {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", d.StudentName, d.DiscountCategory, d.DiscountAmount.StringFixed(2), d.MonthlyFeeAfterDiscount.StringFixed(2))
		}
	}
	return tw.Flush()
}
