package fpenv

const isDarwin = true
