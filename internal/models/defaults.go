package models

import "github.com/GregMSThompson/widget-dashboard/pkg/helpers"

// DefaultWidgets is the dataset a dashboard starts with when nothing has been
// stored yet. Each call returns a fresh copy.
func DefaultWidgets() []Widget {
	return []Widget{
		{
			ID:          1,
			Name:        helpers.Ptr("Website redesign"),
			ProjectName: helpers.Ptr("Marketing"),
			Type:        WidgetTypeProgress,
			Order:       0,
			ChartData: &ChartData{
				TasksCompleted: helpers.Ptr(12.0),
				TasksTotal:     helpers.Ptr(20.0),
				StartDate:      helpers.Ptr("2024-01-08"),
				EndDate:        helpers.Ptr("2024-03-29"),
			},
		},
		{
			ID:          2,
			Name:        helpers.Ptr("Mobile app"),
			ProjectName: helpers.Ptr("Product"),
			Type:        WidgetTypeStatistics,
			Order:       1,
			ChartData: &ChartData{
				TasksCompleted: helpers.Ptr(34.0),
				TasksTotal:     helpers.Ptr(50.0),
				StartDate:      helpers.Ptr("2024-02-01"),
				EndDate:        helpers.Ptr("2024-06-30"),
			},
		},
		{
			ID:          3,
			Name:        helpers.Ptr("Data migration"),
			ProjectName: helpers.Ptr("Platform"),
			Type:        WidgetTypeTimeline,
			Order:       2,
			ChartData: &ChartData{
				TasksCompleted: helpers.Ptr(5.0),
				TasksTotal:     helpers.Ptr(18.0),
				StartDate:      helpers.Ptr("2024-03-04"),
				EndDate:        helpers.Ptr("2024-05-17"),
			},
		},
		{
			ID:          4,
			Name:        helpers.Ptr("Support backlog"),
			ProjectName: helpers.Ptr("Customer success"),
			Type:        WidgetTypeProgress,
			Order:       3,
			ChartData: &ChartData{
				TasksCompleted: helpers.Ptr(41.0),
				TasksTotal:     helpers.Ptr(45.0),
				StartDate:      nil,
				EndDate:        nil,
			},
		},
	}
}
