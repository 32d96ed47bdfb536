// Command replay plays back a recorded match (cmd/podracer -replay) with a
// raylib viewer: the track, its checkpoints, and the four pods, stepping
// turn by turn at a configurable speed.
//
// Usage: go run ./cmd/replay -file match.jsonl
package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/podracer/camera"
	"github.com/pthm-cable/podracer/components"
	"github.com/pthm-cable/podracer/telemetry"
)

const (
	windowWidth  = 1200
	windowHeight = 800
	panelHeight  = 70
	checkpointR  = 600
	podR         = 400
)

var (
	filePath = flag.String("file", "match.jsonl", "Replay trace file written by cmd/podracer -replay")
)

var podColors = [4]rl.Color{rl.Blue, rl.SkyBlue, rl.Red, rl.Orange}

func main() {
	flag.Parse()

	header, frames, err := loadReplay(*filePath)
	if err != nil {
		log.Fatalf("replay: %v", err)
	}
	if len(frames) == 0 {
		log.Fatalf("replay: %s has no recorded turns", *filePath)
	}

	minX, minY, maxX, maxY := boundingBox(header.Checkpoints)
	trackW := float32(maxX-minX) + 2*checkpointR
	trackH := float32(maxY-minY) + 2*checkpointR
	originX := float32(minX) - checkpointR
	originY := float32(minY) - checkpointR

	rl.InitWindow(windowWidth, windowHeight, "Pod Race Replay")
	defer rl.CloseWindow()
	rl.SetTargetFPS(60)

	cam := camera.New(windowWidth, windowHeight-panelHeight, trackW, trackH)
	cam.SetZoom(cam.MinZoom)

	world := ecs.NewWorld()
	podMap := ecs.NewMap2[components.Position, components.Velocity](world)
	podFilter := ecs.NewFilter2[components.Position, components.Velocity](world)
	entities := make([]ecs.Entity, 4)
	for i := range entities {
		pos := &components.Position{}
		vel := &components.Velocity{}
		entities[i] = podMap.NewEntity(pos, vel)
	}

	toTrack := func(x, y int) (float32, float32) {
		return float32(x) - originX, float32(y) - originY
	}

	frameIdx := 0
	playing := false
	speed := 1
	var ticksSinceAdvance int

	for !rl.WindowShouldClose() {
		if rl.IsKeyPressed(rl.KeySpace) {
			playing = !playing
		}
		if rl.IsKeyPressed(rl.KeyRight) && frameIdx < len(frames)-1 {
			frameIdx++
		}
		if rl.IsKeyPressed(rl.KeyLeft) && frameIdx > 0 {
			frameIdx--
		}

		// Pan speed scales inversely with zoom for natural feel.
		panSpeed := float32(8.0) / cam.Zoom
		if rl.IsKeyDown(rl.KeyD) {
			cam.Pan(panSpeed, 0)
		}
		if rl.IsKeyDown(rl.KeyA) {
			cam.Pan(-panSpeed, 0)
		}
		if rl.IsKeyDown(rl.KeyS) {
			cam.Pan(0, panSpeed)
		}
		if rl.IsKeyDown(rl.KeyW) {
			cam.Pan(0, -panSpeed)
		}
		if wheel := rl.GetMouseWheelMove(); wheel != 0 {
			cam.ZoomBy(1.0 + wheel*0.1)
		}
		if rl.IsKeyPressed(rl.KeyHome) {
			cam.Reset()
			cam.SetZoom(cam.MinZoom)
		}

		if playing {
			ticksSinceAdvance++
			if ticksSinceAdvance >= maxInt(1, 30/speed) {
				ticksSinceAdvance = 0
				if frameIdx < len(frames)-1 {
					frameIdx++
				} else {
					playing = false
				}
			}
		}

		frame := frames[frameIdx]
		for i, p := range frame.Pods {
			wx, wy := toTrack(p.X, p.Y)
			pos, vel := podMap.Get(entities[i])
			pos.X, pos.Y = wx, wy
			vel.X, vel.Y = 0, 0
		}

		rl.BeginDrawing()
		rl.ClearBackground(rl.RayWhite)

		for i, cp := range header.Checkpoints {
			sx, sy := cam.WorldToScreen(toTrack(cp[0], cp[1]))
			rl.DrawCircleLines(int32(sx), int32(sy), checkpointR*cam.Zoom, rl.Gray)
			rl.DrawText(fmt.Sprintf("%d", i), int32(sx)-4, int32(sy)-8, 16, rl.Gray)
		}

		query := podFilter.Query()
		i := 0
		for query.Next() {
			pos, _ := query.Get()
			sx, sy := cam.WorldToScreen(pos.X, pos.Y)
			rl.DrawCircle(int32(sx), int32(sy), podR*cam.Zoom, podColors[i])
			move := frame.Moves[minInt(i, 1)]
			if i < 2 {
				tx, ty := cam.WorldToScreen(toTrack(move.TargetX, move.TargetY))
				rl.DrawLine(int32(sx), int32(sy), int32(tx), int32(ty), rl.Fade(podColors[i], 0.4))
				rl.DrawText(move.Power, int32(sx)+10, int32(sy)+10, 14, rl.DarkGray)
			}
			i++
		}

		drawControls(&frameIdx, &playing, &speed, len(frames))

		rl.DrawText(fmt.Sprintf("turn %d/%d  laps=%d", frame.Turn, len(frames)-1, header.Laps), 10, 10, 18, rl.Black)
		rl.EndDrawing()
	}
}

func drawControls(frameIdx *int, playing *bool, speed *int, total int) {
	y := float32(windowHeight - panelHeight + 10)
	if gui.Button(rl.Rectangle{X: 10, Y: y, Width: 90, Height: 30}, togglePlayLabel(*playing)) {
		*playing = !*playing
	}
	if gui.Button(rl.Rectangle{X: 110, Y: y, Width: 70, Height: 30}, "Step") {
		if *frameIdx < total-1 {
			*frameIdx++
		}
	}
	if gui.Button(rl.Rectangle{X: 190, Y: y, Width: 70, Height: 30}, "Reset") {
		*frameIdx = 0
		*playing = false
	}
	if gui.Button(rl.Rectangle{X: 270, Y: y, Width: 90, Height: 30}, fmt.Sprintf("Speed x%d", *speed)) {
		*speed = *speed * 2
		if *speed > 8 {
			*speed = 1
		}
	}
}

func togglePlayLabel(playing bool) string {
	if playing {
		return "Pause"
	}
	return "Play"
}

// loadReplay reads the JSON-lines file cmd/podracer -replay writes: a
// ReplayHeader line followed by one ReplayFrame line per recorded turn.
func loadReplay(path string) (telemetry.ReplayHeader, []telemetry.ReplayFrame, error) {
	f, err := os.Open(path)
	if err != nil {
		return telemetry.ReplayHeader{}, nil, fmt.Errorf("opening replay file: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 1024), 1<<20)

	var header telemetry.ReplayHeader
	var frames []telemetry.ReplayFrame
	first := true
	for scanner.Scan() {
		line := scanner.Bytes()
		if first {
			first = false
			if err := json.Unmarshal(line, &header); err != nil {
				return header, nil, fmt.Errorf("parsing replay header: %w", err)
			}
			continue
		}
		var frame telemetry.ReplayFrame
		if err := json.Unmarshal(line, &frame); err != nil {
			return header, nil, fmt.Errorf("parsing replay frame: %w", err)
		}
		frames = append(frames, frame)
	}
	if err := scanner.Err(); err != nil {
		return header, nil, fmt.Errorf("reading replay file: %w", err)
	}
	return header, frames, nil
}

func boundingBox(checkpoints [][2]int) (minX, minY, maxX, maxY int) {
	if len(checkpoints) == 0 {
		return 0, 0, 1, 1
	}
	minX, minY = checkpoints[0][0], checkpoints[0][1]
	maxX, maxY = minX, minY
	for _, cp := range checkpoints[1:] {
		if cp[0] < minX {
			minX = cp[0]
		}
		if cp[0] > maxX {
			maxX = cp[0]
		}
		if cp[1] < minY {
			minY = cp[1]
		}
		if cp[1] > maxY {
			maxY = cp[1]
		}
	}
	return
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
