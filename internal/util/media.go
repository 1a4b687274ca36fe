package util

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"strconv"

	ffmpeg "github.com/u2takey/ffmpeg-go"
)

// MediaInfo 存储音视频文件的元数据
type MediaInfo struct {
	Duration float64 `json:"duration"` // 时长（秒）
	Format   string  `json:"format"`
	Size     int64   `json:"size"`
}

// ProbeMedia 使用ffmpeg-go获取音视频信息，用于推导模块预计学习时长
func ProbeMedia(path string) (*MediaInfo, error) {
	fileInfo, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("媒体文件不存在: %v", err)
	}

	jsonOutput, err := ffmpeg.Probe(path)
	if err != nil {
		return nil, fmt.Errorf("获取媒体信息失败: %v", err)
	}

	var result struct {
		Format struct {
			Duration string `json:"duration"`
			Size     string `json:"size"`
			Format   string `json:"format_name"`
		} `json:"format"`
	}

	if err := json.Unmarshal([]byte(jsonOutput), &result); err != nil {
		return nil, fmt.Errorf("解析媒体信息失败: %v", err)
	}

	duration, err := strconv.ParseFloat(result.Format.Duration, 64)
	if err != nil {
		duration = 0
	}

	size, err := strconv.ParseInt(result.Format.Size, 10, 64)
	if err != nil {
		size = fileInfo.Size()
	}

	return &MediaInfo{
		Duration: duration,
		Format:   result.Format.Format,
		Size:     size,
	}, nil
}

// DurationMinutes 把秒数换算成分钟，不足一分钟按一分钟计
func (m *MediaInfo) DurationMinutes() int {
	if m.Duration <= 0 {
		return 0
	}
	return int(math.Ceil(m.Duration / 60))
}
