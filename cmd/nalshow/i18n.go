// Package main provides localization for the nalshow CLI.
package main

import (
	"github.com/ideamans/go-l10n"
)

func init() {
	// Register Japanese translations for CLI messages.
	l10n.Register("ja", l10n.LexiconMap{
		// Root command
		"Inspect, decode and stream H.264 elementary streams.": "H.264エレメンタリーストリームの解析・デコード・配信を行います。",

		// Subcommand help
		"Decode an H.264 file and report the pictures found.":  "H.264ファイルをデコードし、得られたピクチャを報告",
		"List the NAL units of an H.264 file without decoding.": "デコードせずにH.264ファイルのNALユニットを一覧表示",
		"Decode an H.264 file and save every picture as PNG.":  "H.264ファイルをデコードし、全ピクチャをPNGとして保存",
		"Stream an H.264 file to a receiver over UDP.":         "H.264ファイルをUDPで受信側に配信",
		"Receive an H.264 stream over UDP and decode it.":      "UDPでH.264ストリームを受信してデコード",
		"Browse the local network for stream peers.":           "ローカルネットワークで配信ピアを検索",
		"Show version information.":                            "バージョン情報を表示",

		// CLI messages
		"nalshow version %s":                            "nalshow バージョン %s",
		"No peers found.":                               "ピアが見つかりませんでした。",
		"No picture could be decoded from the stream":   "ストリームから1枚もピクチャをデコードできませんでした",
	})
}
