package ui

import "time"

// refreshInterval redraws the header so the "updated" age stays current.
const refreshInterval = time.Second
