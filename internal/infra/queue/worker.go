package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/salescope/pipeline-insights/internal/infra/export"
	"github.com/salescope/pipeline-insights/internal/usecase"
)

type ReportMailer interface {
	SendReport(to, reportName, period string, pdfData []byte) error
}

// Worker renders queued spotlight exports and emails them. Rendering reuses
// the same synchronous pipeline as the HTTP download; only delivery is
// asynchronous.
type Worker struct {
	Channel     *amqp.Channel
	Spotlight   *usecase.SpotlightUseCase
	Mailer      ReportMailer
	ReferenceTZ *time.Location
	MaxRows     int
}

func NewWorker(ch *amqp.Channel, spotlight *usecase.SpotlightUseCase, mailer ReportMailer, referenceTZ *time.Location, maxRows int) *Worker {
	return &Worker{
		Channel:     ch,
		Spotlight:   spotlight,
		Mailer:      mailer,
		ReferenceTZ: referenceTZ,
		MaxRows:     maxRows,
	}
}

func (w *Worker) Start(queueName string) {
	msgs, err := w.Channel.Consume(
		queueName,
		"",
		false, // manual ack
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		log.Fatalf("rabbitmq consumer registration failed: %s", err)
	}

	forever := make(chan bool)

	go func() {
		for d := range msgs {
			var payload ExportPayload
			if err := json.Unmarshal(d.Body, &payload); err != nil {
				log.Printf("[worker] malformed export payload, dropping: %s", err)
				// Poison message, reject without requeue.
				d.Nack(false, false)
				continue
			}

			log.Printf("[worker] rendering %s export %s..%s for %s", payload.Report, payload.From, payload.To, payload.Recipient)

			if err := w.processMessage(context.Background(), payload); err != nil {
				log.Printf("[worker] export failed: %s", err)
				d.Nack(false, false)
			} else {
				log.Printf("[worker] export sent to %s", payload.Recipient)
				d.Ack(false)
			}
		}
	}()

	log.Printf(" [*] export worker waiting on queue '%s'", queueName)
	<-forever
}

func (w *Worker) processMessage(ctx context.Context, payload ExportPayload) error {
	window, verrs := usecase.ValidateReportRange(usecase.ReportRangeInput{
		From: payload.From,
		To:   payload.To,
		TZ:   payload.TZ,
	}, w.ReferenceTZ)
	if len(verrs) > 0 {
		return fmt.Errorf("invalid export range: %v", verrs[0])
	}

	var doc export.Document
	switch payload.Report {
	case "setters":
		rows, err := w.Spotlight.SetterRows(ctx, window)
		if err != nil {
			return err
		}
		if len(rows) > w.MaxRows {
			return usecase.RangeTooLarge(len(rows), w.MaxRows)
		}
		doc = export.BuildSetterDocument(rows, window)
	case "closers":
		rows, err := w.Spotlight.CloserRows(ctx, window)
		if err != nil {
			return err
		}
		if len(rows) > w.MaxRows {
			return usecase.RangeTooLarge(len(rows), w.MaxRows)
		}
		doc = export.BuildCloserDocument(rows, window)
	default:
		return fmt.Errorf("unknown report %q", payload.Report)
	}

	pdfData, err := export.RenderPDF(doc)
	if err != nil {
		return err
	}
	return w.Mailer.SendReport(payload.Recipient, doc.Title, doc.Period, pdfData)
}
