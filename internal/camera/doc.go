// Package camera キャプチャデバイスの列挙と制御インターフェースの取得を担う
//
// # 責務
// - プラットフォームのキャプチャデバイスの列挙
// - デバイスを開き、カメラ制御と映像処理の二つの制御インターフェースを提供
// - ネイティブAPIのステータスをStatusErrorとして返す
//
// # 使い分け
// このパッケージは以下の場合に使用する：
// - 接続されているカメラの一覧を表示したい
// - 露出やフォーカス、明るさなどのプロパティを読み書きしたい
//
// # 仕様
//   - Discovery: バックエンドごとのデバイス列挙と Open
//   - DiscoveryFactory: バックエンド名から Discovery を作成
//   - v4l2 (Linux): /dev/video* を番号順に走査し、キャプチャ機能を持つノードのみ返す。
//     プロパティ識別子はV4L2コントロールへ変換される
//   - mediafoundation (Windows): MFEnumDeviceSources で列挙し、
//     IAMCameraControl / IAMVideoProcAmp を直接呼び出す
//   - mock: テストとドライラン用のインメモリ実装
//
// # 前提要件
//   - videoグループへの参加: Linuxでのデバイスアクセス権限
//     sudo usermod -a -G video $USER
package camera
