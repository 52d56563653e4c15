package mapping

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// QueueInfo contains metadata for one queue
type QueueInfo struct {
	Application string `yaml:"application"`
	Team        string `yaml:"team"`
	Notes       string `yaml:"notes"`
}

// ChannelInfo contains metadata for one channel
type ChannelInfo struct {
	Application string `yaml:"application"`
	Notes       string `yaml:"notes"`
}

// QueueMap maps queue and channel names to owning applications
type QueueMap struct {
	Queues   map[string]QueueInfo   `yaml:"queues"`
	Channels map[string]ChannelInfo `yaml:"channels"`
}

// LoadQueueMap loads the queue map YAML file
func LoadQueueMap(path string) (*QueueMap, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read queue map: %w", err)
	}

	var qm QueueMap
	if err := yaml.Unmarshal(data, &qm); err != nil {
		return nil, fmt.Errorf("failed to parse queue map: %w", err)
	}

	if qm.Queues == nil {
		qm.Queues = make(map[string]QueueInfo)
	}
	if qm.Channels == nil {
		qm.Channels = make(map[string]ChannelInfo)
	}

	return &qm, nil
}

// Empty returns a queue map with no entries, used when no map file is
// configured. All lookups fall back to the queried name.
func Empty() *QueueMap {
	return &QueueMap{
		Queues:   make(map[string]QueueInfo),
		Channels: make(map[string]ChannelInfo),
	}
}

// OwnerForQueue returns the owning application for a queue.
// Returns the queue name itself if not found in the map.
func (qm *QueueMap) OwnerForQueue(queueName string) string {
	if info, ok := qm.Queues[queueName]; ok && info.Application != "" {
		return info.Application
	}
	return queueName
}

// TeamForQueue returns the owning team for a queue, or "" if unmapped
func (qm *QueueMap) TeamForQueue(queueName string) string {
	if info, ok := qm.Queues[queueName]; ok {
		return info.Team
	}
	return ""
}

// OwnerForChannel returns the owning application for a channel.
// Returns the channel name itself if not found in the map.
func (qm *QueueMap) OwnerForChannel(channelName string) string {
	if info, ok := qm.Channels[channelName]; ok && info.Application != "" {
		return info.Application
	}
	return channelName
}
