package handler

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gotd/td/telegram/message"
	"github.com/gotd/td/telegram/message/html"
	"github.com/gotd/td/tg"

	"github.com/pavelc4/aether-fetch/config"
	"github.com/pavelc4/aether-fetch/internal/stats"
	"github.com/pavelc4/aether-fetch/internal/telegram"
	"github.com/pavelc4/aether-fetch/pkg/utils"
	"github.com/pavelc4/aether-fetch/pkg/worker"
)

type AdminHandler struct {
	client   *telegram.Client
	cfg      *config.Config
	counters *stats.Counters
	probe    *stats.Probe
	pool     *worker.Pool
}

func NewAdminHandler(cli *telegram.Client, cfg *config.Config, counters *stats.Counters, probe *stats.Probe, pool *worker.Pool) *AdminHandler {
	return &AdminHandler{client: cli, cfg: cfg, counters: counters, probe: probe, pool: pool}
}

func (h *AdminHandler) HandleStats(ctx context.Context, e tg.Entities, msg *tg.Message) error {
	if !h.cfg.IsOwner(getSenderID(msg)) {
		return nil
	}

	inputPeer, err := resolvePeer(msg.PeerID, e)
	if err != nil {
		return err
	}

	text := FormatStats(h.probe.Collect(ctx), h.counters.Snapshot(), h.pool.Active(), h.pool.Size())
	sender := message.NewSender(h.client.API())
	_, err = sender.To(inputPeer).Reply(msg.ID).StyledText(ctx, html.String(nil, text))
	return err
}

func FormatStats(sys *stats.SystemInfo, snap stats.Snapshot, active, workers int) string {
	families := "-"
	if names := snap.FamilyNames(); len(names) > 0 {
		parts := make([]string, len(names))
		for i, n := range names {
			parts[i] = fmt.Sprintf("%s %d", n, snap.Families[n])
		}
		families = strings.Join(parts, ", ")
	}

	return fmt.Sprintf(
		"<b>System Status</b>\n\n"+
			"<b>OS Info</b>\n"+
			"├ System : <code>%s</code>\n"+
			"├ Host : <code>%s</code>\n"+
			"└ Uptime : <code>%s</code>\n\n"+
			"<b>CPU</b>\n"+
			"├ Cores : <code>%d</code>\n"+
			"├ Usage : <code>%.2f%%</code>\n"+
			"└ Load : <code>%.2f %.2f %.2f</code>\n\n"+
			"<b>Memory</b>\n"+
			"├ Used : <code>%s / %s (%.1f%%)</code>\n"+
			"└ Free : <code>%s</code>\n\n"+
			"<b>Holding Dir</b>\n"+
			"├ Path : <code>%s</code>\n"+
			"├ Used : <code>%s / %s (%.1f%%)</code>\n"+
			"└ Free : <code>%s</code>\n\n"+
			"<b>Network</b>\n"+
			"├ Sent : <code>%s</code>\n"+
			"└ Recv : <code>%s</code>\n\n"+
			"<b>Fetches</b>\n"+
			"├ Total : <code>%d (%d ok, %d failed)</code>\n"+
			"├ Today : <code>%d (%d failed)</code>\n"+
			"├ Week : <code>%d (%d failed)</code>\n"+
			"├ Sent : <code>%s</code>\n"+
			"├ Avg Time : <code>%s</code>\n"+
			"├ Sources : <code>%s</code>\n"+
			"└ Workers : <code>%d / %d busy</code>\n\n"+
			"<b>Bot Process</b>\n"+
			"├ Uptime : <code>%s</code>\n"+
			"├ PID : <code>%d</code>\n"+
			"├ CPU : <code>%.2f%%</code>\n"+
			"├ Mem : <code>%s</code>\n"+
			"└ Go Ver : <code>%s</code>\n\n"+
			"<b>Go Process</b>\n"+
			"├ Routines : <code>%d</code>\n"+
			"├ Heap : <code>%s</code>\n"+
			"└ GC Runs : <code>%d</code>",
		sys.OS,
		sys.Hostname,
		utils.FormatDuration(sys.SystemUptime),
		sys.CPUCores,
		sys.CPUUsage,
		sys.Load1, sys.Load5, sys.Load15,
		utils.FormatBytes(sys.MemUsed), utils.FormatBytes(sys.MemTotal), sys.MemPercent,
		utils.FormatBytes(sys.MemAvailable),
		sys.DiskPath,
		utils.FormatBytes(sys.DiskUsed), utils.FormatBytes(sys.DiskTotal), sys.DiskPercent,
		utils.FormatBytes(sys.DiskFree),
		utils.FormatBytes(sys.NetSent),
		utils.FormatBytes(sys.NetRecv),
		snap.Total, snap.Succeeded, snap.Failed,
		snap.Today.Requests, snap.Today.Failed,
		snap.ThisWeek.Requests, snap.ThisWeek.Failed,
		utils.FormatFileSize(snap.Bytes),
		snap.AvgElapsed.Round(100*time.Millisecond),
		families,
		active, workers,
		utils.FormatDuration(sys.ProcessUptime),
		sys.ProcessPID,
		sys.ProcessCPU,
		utils.FormatBytes(sys.ProcessMem),
		sys.GoVersion,
		sys.Goroutines,
		utils.FormatBytes(sys.HeapAlloc),
		sys.GCRuns,
	)
}
