package tasks

import (
	"math/rand"

	"github.com/lysyi3m/linkedin-comb/app/topics"
)

// FetchTask is one (topic, region, optional subregion) unit of scraping work.
type FetchTask struct {
	Topic      string
	Region     string // region key, used for topic tags and the audit log
	RegionName string // display name, used to build the search query
	Subregion  string
}

// ExpandTasks flattens the topic configuration into the full combinatorial
// task list: one task per (region, topic) pair, multiplied by subregions
// when the region has any.
func ExpandTasks(config *topics.Config) []FetchTask {
	var fetchTasks []FetchTask

	for regionKey, region := range config.Regions {
		for _, topic := range region.Topics {
			if len(region.Subregions) > 0 {
				for _, subregion := range region.Subregions {
					fetchTasks = append(fetchTasks, FetchTask{
						Topic:      topic,
						Region:     regionKey,
						RegionName: region.Name,
						Subregion:  subregion,
					})
				}
			} else {
				fetchTasks = append(fetchTasks, FetchTask{
					Topic:      topic,
					Region:     regionKey,
					RegionName: region.Name,
				})
			}
		}
	}

	return fetchTasks
}

// ShuffleTasks permutes the task list in place so interrupted cycles do not
// always scrape the same prefix of the configuration.
func ShuffleTasks(fetchTasks []FetchTask) {
	rand.Shuffle(len(fetchTasks), func(i, j int) {
		fetchTasks[i], fetchTasks[j] = fetchTasks[j], fetchTasks[i]
	})
}
