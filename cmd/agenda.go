package main

import (
	"fmt"
	"io"
	"math"
	"time"

	database "github.com/JoaoGSDC/streamline-app/Database"
	"github.com/JoaoGSDC/streamline-app/internal/game"
	"github.com/JoaoGSDC/streamline-app/internal/security"
	"github.com/JoaoGSDC/streamline-app/internal/stream"
	"github.com/JoaoGSDC/streamline-app/internal/streamer"
	"github.com/JoaoGSDC/streamline-app/internal/views"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func newAgendaCmd(opts *rootOptions) *cobra.Command {
	var view, date string

	cmd := &cobra.Command{
		Use:   "agenda <handle>",
		Short: "Print a streamer's schedule",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			loc, err := opts.config.Location()
			if err != nil {
				return err
			}

			connector := database.NewConnector(opts.config)
			db, err := connector.Handle(cmd.Context())
			if err != nil {
				return err
			}
			defer connector.Close()

			streamers := streamer.NewStreamerService(streamer.NewStreamerStore(db), security.NewSealer(nil))
			service := stream.NewScheduledStreamService(
				stream.NewScheduledStreamStore(db),
				game.NewGameService(game.NewGameStore(db)),
				streamers,
				nil,
				loc,
			)

			agenda, err := service.Agenda(cmd.Context(), args[0], view, date)
			if err != nil {
				return err
			}
			renderAgenda(cmd.OutOrStdout(), agenda, loc, time.Now())
			return nil
		},
	}
	cmd.Flags().StringVar(&view, "view", stream.ViewWeek, "today, week, month or all")
	cmd.Flags().StringVar(&date, "date", "", "reference day as YYYY-MM-DD (default today)")
	return cmd
}

// relativeMagnitudes is humanize's default table in pt-BR. The label ("há" or
// "daqui a") comes first.
var relativeMagnitudes = []humanize.RelTimeMagnitude{
	{D: time.Second, Format: "agora", DivBy: time.Second},
	{D: 2 * time.Second, Format: "%s 1 segundo", DivBy: 1},
	{D: time.Minute, Format: "%s %d segundos", DivBy: time.Second},
	{D: 2 * time.Minute, Format: "%s 1 minuto", DivBy: 1},
	{D: time.Hour, Format: "%s %d minutos", DivBy: time.Minute},
	{D: 2 * time.Hour, Format: "%s 1 hora", DivBy: 1},
	{D: humanize.Day, Format: "%s %d horas", DivBy: time.Hour},
	{D: 2 * humanize.Day, Format: "%s 1 dia", DivBy: 1},
	{D: humanize.Week, Format: "%s %d dias", DivBy: humanize.Day},
	{D: 2 * humanize.Week, Format: "%s 1 semana", DivBy: 1},
	{D: humanize.Month, Format: "%s %d semanas", DivBy: humanize.Week},
	{D: 2 * humanize.Month, Format: "%s 1 mês", DivBy: 1},
	{D: humanize.Year, Format: "%s %d meses", DivBy: humanize.Month},
	{D: 18 * humanize.Month, Format: "%s 1 ano", DivBy: 1},
	{D: 2 * humanize.Year, Format: "%s 2 anos", DivBy: 1},
	{D: humanize.LongTime, Format: "%s %d anos", DivBy: humanize.Year},
	{D: math.MaxInt64, Format: "%s muito tempo", DivBy: 1},
}

func relativeTime(at, now time.Time) string {
	return humanize.CustomRelTime(at, now, "há", "daqui a", relativeMagnitudes)
}

func renderAgenda(w io.Writer, agenda *stream.Agenda, loc *time.Location, now time.Time) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.SetTitle(fmt.Sprintf("@%s · %s · %s", agenda.Handle, agenda.View, agenda.Date))
	t.AppendHeader(table.Row{"Dia", "Data", "Hora", "Jogo", "Duração", "Quando"})

	for _, entry := range agenda.Entries {
		at := entry.At(loc)
		t.AppendRow(table.Row{
			views.WeekdayName(at.Weekday()),
			at.Format("02/01/2006"),
			entry.ScheduledTime,
			entry.Title,
			entry.Duration,
			relativeTime(at, now),
		})
	}

	t.AppendFooter(table.Row{"", "", "", "Total", len(agenda.Entries), ""})
	t.Render()
}
