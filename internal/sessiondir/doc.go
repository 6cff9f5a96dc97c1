// Package sessiondir discovers session files in a client's session
// directory and stages copies of them elsewhere.
//
// Discovery is non-recursive and matches base names against glob patterns
// such as "*.torrent.rtorrent". Staging copies every candidate (including
// companion .torrent and .libtorrent_resume files) into an output directory
// so rewrites can run against the copies while the originals stay untouched.
package sessiondir
