// Package report renders run aggregates: the averages text file and the
// terminal tables standing in for the scatter and bar charts.
package report
