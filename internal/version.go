package internal

// Version is the current ankidict release.
const Version = "0.3.0"
