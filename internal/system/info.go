package system

import (
	"context"
	"fmt"
	"strings"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/host"
)

// GetSystemInfo returns static host information for the dashboard header
func GetSystemInfo(ctx context.Context) (*SystemInfo, error) {
	hostInfo, err := host.InfoWithContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get host info: %w", err)
	}

	users, err := host.UsersWithContext(ctx)
	if err != nil {
		users = nil // Continue without user info
	}

	userHost := hostInfo.Hostname
	if len(users) > 0 && users[0].User != "" {
		userHost = users[0].User + "@" + hostInfo.Hostname
	}

	return &SystemInfo{
		User:   userHost,
		Host:   hostInfo.Hostname,
		OS:     strings.TrimSpace(fmt.Sprintf("%s %s %s", hostInfo.Platform, hostInfo.PlatformVersion, hostInfo.KernelArch)),
		Kernel: fmt.Sprintf("%s %s", hostInfo.OS, hostInfo.KernelVersion),
		CPU:    GetCPUModel(ctx),
	}, nil
}

// GetCPUModel returns "<model> (<cores>)", or "Unknown CPU".
func GetCPUModel(ctx context.Context) string {
	cpuStat, err := cpu.InfoWithContext(ctx)
	if err != nil || len(cpuStat) == 0 {
		return "Unknown CPU"
	}

	name := strings.TrimSpace(cpuStat[0].ModelName)
	if name == "" {
		name = "Unknown CPU"
	}
	logical, err := cpu.CountsWithContext(ctx, true)
	if err != nil || logical == 0 {
		return name
	}
	return fmt.Sprintf("%s (%d)", name, logical)
}
