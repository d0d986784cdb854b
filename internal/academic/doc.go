// Package academic holds the pure rules behind the dashboards and feeds: who an event is for,
// how many credits a student has earned and how grades project into charts.
// Every function works on already loaded slices and never mutates its input.
package academic
