package logger

import "github.com/ideamans/go-l10n"

func init() {
	l10n.Register("ja", l10n.LexiconMap{
		// Orchestration level messages (info)
		"Starting pipeline":               "パイプラインを開始します",
		"Pipeline completed successfully": "パイプラインが正常に完了しました",
		"Interrupted, shutting down...":   "中断されました。シャットダウン中...",

		// Probe stage
		"Probing %s":                       "%s を解析中",
		"Detected %s input (%d bytes)":     "%s 入力を検出しました (%d バイト)",
		"Input file is empty":              "入力ファイルが空です",

		// Split stage
		"Splitting stream into NAL units":  "ストリームをNALユニットに分割中",
		"Found %d NAL units":               "%d 個のNALユニットが見つかりました",
		"Extracting samples from MP4":      "MP4からサンプルを抽出中",

		// Decode stage
		"Initializing decoder (%s backend)":      "デコーダーを初期化中 (%s バックエンド)",
		"Picture decoded. Width: %d, Height: %d": "ピクチャをデコードしました。幅: %d, 高さ: %d",
		"Decoder rejected access unit %d: %s":    "デコーダーがアクセスユニット %d を拒否しました: %s",
		"Decoded %d pictures (%d failed)":        "%d 枚のピクチャをデコードしました (%d 失敗)",
		"Decoder closed":                         "デコーダーを閉じました",

		// Report stage
		"Writing report":     "レポートを書き込み中",
		"Report saved to %s": "レポートを %s に保存しました",

		// Dump
		"Saving picture %d": "ピクチャ %d を保存中",
		"Saved %d pictures to %s": "%d 枚のピクチャを %s に保存しました",

		// Stream transport
		"Sending %d NAL units to %s":     "%d 個のNALユニットを %s に送信中",
		"Listening on port %d":           "ポート %d で待機中",
		"NAL unit dropped (packet gap)":  "NALユニットを破棄しました (パケット欠落)",
		"Stream finished":                "ストリームが終了しました",

		// Discovery
		"Browsing for peers...":       "ピアを検索中...",
		"Announcing service on %s:%d": "%s:%d でサービスを通知中",

		// Errors
		"Failed to probe input: %s":      "入力の解析に失敗しました: %s",
		"Failed to split stream: %s":     "ストリームの分割に失敗しました: %s",
		"Failed to initialize decoder: %s": "デコーダーの初期化に失敗しました: %s",
		"Failed to write output: %s":     "出力の書き込みに失敗しました: %s",
	})
}
